package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainlaunch/rolluplaunch/pkg/db"
	"github.com/chainlaunch/rolluplaunch/pkg/deployments"
	"github.com/chainlaunch/rolluplaunch/pkg/logger"
	"github.com/chainlaunch/rolluplaunch/pkg/orchestrator"
)

func newTestRouter(t *testing.T) (chi.Router, *deployments.Service) {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.RunMigrations(database))

	service := deployments.NewService(db.New(database), logger.NewDefault())

	router := chi.NewRouter()
	NewHandler(service).RegisterRoutes(router)
	return router, service
}

func TestListDeploymentsEmpty(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/deployments", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var out []DeploymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Empty(t, out)
}

func TestGetDeployment(t *testing.T) {
	router, service := newTestRouter(t)

	ctx := context.Background()
	require.NoError(t, service.RunStarted(ctx, "run-1", 412346))
	require.NoError(t, service.RunStateChanged(ctx, "run-1", orchestrator.StateDeploy))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/deployments/run-1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var out DeploymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "run-1", out.ID)
	assert.Equal(t, int64(412346), out.ChainID)
	assert.Equal(t, string(orchestrator.StateDeploy), out.State)
}

func TestGetDeploymentNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/deployments/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
