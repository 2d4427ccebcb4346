package service

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"feasibility_analysis/internal/models"
	"feasibility_analysis/internal/repository"
)

// ErrRunNotFound is returned for an unknown run ID.
var ErrRunNotFound = eris.New("run not found")

const maxListLimit = 500

type RunsService struct {
	runRepo repository.RunRepo
}

func NewRunsService(runRepo repository.RunRepo) *RunsService {
	return &RunsService{runRepo: runRepo}
}

func (s *RunsService) GetRun(ctx context.Context, id string) (*models.Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, eris.Wrap(ErrInvalidRequest, "run id is required")
	}
	run, err := s.runRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, eris.Wrapf(ErrRunNotFound, "run %s", id)
	}
	return run, nil
}

// ListRuns returns the newest runs first. An empty status lists every run;
// limit is clamped to [1, 500] with zero meaning the repository default.
func (s *RunsService) ListRuns(ctx context.Context, status string, limit int) ([]models.Run, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	switch status {
	case "", models.RunPending, models.RunRunning, models.RunCompleted, models.RunFailed:
	default:
		return nil, eris.Wrapf(ErrInvalidRequest, "unknown run status %q", status)
	}
	if limit < 0 {
		return nil, eris.Wrapf(ErrInvalidRequest, "negative limit %d", limit)
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.runRepo.List(ctx, status, limit)
}
