package deployments

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chainlaunch/rolluplaunch/pkg/db"
	apperrors "github.com/chainlaunch/rolluplaunch/pkg/errors"
	"github.com/chainlaunch/rolluplaunch/pkg/logger"
	"github.com/chainlaunch/rolluplaunch/pkg/orchestrator"
)

func newService(t *testing.T) *Service {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewService(db.New(database), logger.NewDefault())
}

func TestRunLifecycleRecording(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.RunStarted(ctx, "run-1", 412346))
	require.NoError(t, svc.RunStateChanged(ctx, "run-1", orchestrator.StateFund))
	require.NoError(t, svc.RunSucceeded(ctx, "run-1", "0xabc", "/tmp/nodeConfig.json"))

	d, err := svc.Get(ctx, "run-1")
	require.NoError(t, err)
	require.Equal(t, int64(412346), d.ChainID)
	require.Equal(t, "success", d.Status)
	require.Equal(t, "DONE", d.State)
	require.Equal(t, "0xabc", d.TxHash.String)
	require.Equal(t, "/tmp/nodeConfig.json", d.ArtifactPath.String)
}

func TestRunFailureRecording(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.RunStarted(ctx, "run-2", 99999))
	require.NoError(t, svc.RunFailed(ctx, "run-2", "deployer balance below funding requirement"))

	d, err := svc.Get(ctx, "run-2")
	require.NoError(t, err)
	require.Equal(t, "failed", d.Status)
	require.Equal(t, "FAILED", d.State)
	require.Contains(t, d.Message.String, "balance")
}

func TestListNewestFirst(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.RunStarted(ctx, "run-a", 1))
	require.NoError(t, svc.RunStarted(ctx, "run-b", 2))

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestGetMissing(t *testing.T) {
	svc := newService(t)

	_, err := svc.Get(context.Background(), "nope")
	require.Error(t, err)
	require.True(t, apperrors.IsType(err, apperrors.NotFoundError))
}
