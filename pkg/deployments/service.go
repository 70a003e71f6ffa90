package deployments

import (
	"context"
	"database/sql"
	"errors"

	"github.com/chainlaunch/rolluplaunch/pkg/db"
	apperrors "github.com/chainlaunch/rolluplaunch/pkg/errors"
	"github.com/chainlaunch/rolluplaunch/pkg/logger"
	"github.com/chainlaunch/rolluplaunch/pkg/orchestrator"
)

// Service records deployment runs and answers queries about them. It
// implements orchestrator.RunRecorder.
type Service struct {
	queries *db.Queries
	logger  *logger.Logger
}

func NewService(queries *db.Queries, log *logger.Logger) *Service {
	return &Service{
		queries: queries,
		logger:  log.With("component", "deployments"),
	}
}

func (s *Service) RunStarted(ctx context.Context, runID string, chainID uint64) error {
	return s.queries.CreateDeployment(ctx, runID, int64(chainID))
}

func (s *Service) RunStateChanged(ctx context.Context, runID string, state orchestrator.State) error {
	return s.queries.UpdateDeploymentState(ctx, runID, string(state))
}

func (s *Service) RunSucceeded(ctx context.Context, runID string, txHash string, artifactPath string) error {
	return s.queries.MarkDeploymentSucceeded(ctx, runID, txHash, artifactPath)
}

func (s *Service) RunFailed(ctx context.Context, runID string, message string) error {
	return s.queries.MarkDeploymentFailed(ctx, runID, message)
}

// Get returns one recorded run.
func (s *Service) Get(ctx context.Context, runID string) (*db.Deployment, error) {
	d, err := s.queries.GetDeployment(ctx, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("deployment not found", map[string]interface{}{
			"id": runID,
		})
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to load deployment", err, nil)
	}
	return d, nil
}

// List returns all recorded runs, newest first.
func (s *Service) List(ctx context.Context) ([]*db.Deployment, error) {
	out, err := s.queries.ListDeployments(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to list deployments", err, nil)
	}
	return out, nil
}
