package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"feasibility_analysis/internal/logger"
	"feasibility_analysis/internal/metrics"
	"feasibility_analysis/internal/models"
	"feasibility_analysis/internal/repository"
)

const defaultBatch = 4

// executor runs one analysis request to a report.
type executor interface {
	execute(ctx context.Context, req models.AnalysisRequest) (*models.Report, error)
}

// RunnerService claims pending runs and executes them one at a time.
type RunnerService struct {
	runRepo   repository.RunRepo
	eventRepo repository.EventRepo
	exec      executor
	batch     int
	metrics   *metrics.Metrics
	log       *logger.Logger
}

// NewRunnerService returns a runner claiming up to batch runs per tick. A
// non-positive batch means 4.
func NewRunnerService(runRepo repository.RunRepo, eventRepo repository.EventRepo, analysis *AnalysisService,
	batch int, m *metrics.Metrics, log *logger.Logger) *RunnerService {
	if batch <= 0 {
		batch = defaultBatch
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &RunnerService{
		runRepo:   runRepo,
		eventRepo: eventRepo,
		exec:      analysis,
		batch:     batch,
		metrics:   m,
		log:       log,
	}
}

// Recover returns runs left running by a previous process to pending. Call it
// before Run.
func (s *RunnerService) Recover(ctx context.Context) (int, error) {
	n, err := s.runRepo.ResetRunning(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Warnw("runs_requeued_on_start", "count", n)
	}
	return n, nil
}

// Run ticks at the given interval until ctx is canceled.
func (s *RunnerService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := s.tick(ctx); err != nil && ctx.Err() == nil {
				s.log.Errorw("runner_tick_failed", "error", err)
			}
		}
	}
}

// tick claims a batch of pending runs and processes them in creation order.
// It returns how many runs were processed. Claimed runs not started before
// ctx is canceled go back to pending.
func (s *RunnerService) tick(ctx context.Context) (int, error) {
	runs, err := s.runRepo.ClaimPending(ctx, s.batch)
	if err != nil {
		return 0, err
	}
	s.metrics.RunsClaimed(len(runs))
	done := 0
	for i, run := range runs {
		if ctx.Err() != nil {
			s.requeue(ctx, runs[i:]...)
			break
		}
		s.process(ctx, run)
		done++
	}
	return done, nil
}

// requeue returns claimed runs to pending. It writes even when ctx is
// canceled.
func (s *RunnerService) requeue(ctx context.Context, runs ...models.Run) {
	store := context.WithoutCancel(ctx)
	for _, run := range runs {
		run.Status = models.RunPending
		run.StartedAt = nil
		run.FinishedAt = nil
		run.Report = nil
		run.Error = ""
		if err := s.runRepo.Update(store, run); err != nil {
			s.log.Errorw("run_requeue_failed", "run_id", run.ID, "error", err)
			continue
		}
		s.log.Infow("run_requeued", "run_id", run.ID)
	}
}

func (s *RunnerService) process(ctx context.Context, run models.Run) {
	started := time.Now().UTC()
	if run.StartedAt == nil {
		run.StartedAt = &started
	}
	run.Status = models.RunRunning
	s.appendEvent(ctx, run.ID, models.EventStarted, "Analysis started", nil)

	report, err := s.exec.execute(ctx, run.Request)
	if err != nil && ctx.Err() != nil {
		s.requeue(ctx, run)
		return
	}
	// the outcome is stored even if ctx is canceled from here on
	store := context.WithoutCancel(ctx)
	finished := time.Now().UTC()
	run.FinishedAt = &finished

	if err != nil {
		run.Status = models.RunFailed
		run.Error = err.Error()
		s.log.Errorw("run_failed", "run_id", run.ID, "error", err)
	} else {
		run.Status = models.RunCompleted
		run.Report = report
		s.log.Infow("run_completed", "run_id", run.ID,
			"hours", report.Hours,
			"recommendation", report.Recommendation.Mode,
			"elapsed", finished.Sub(started).String())
	}

	if err := s.runRepo.Update(store, run); err != nil {
		s.log.Errorw("run_update_failed", "run_id", run.ID, "error", err)
		return
	}

	if run.Status == models.RunFailed {
		s.appendEvent(store, run.ID, models.EventFailed, "Analysis failed", map[string]any{"error": run.Error})
		return
	}
	s.appendEvent(store, run.ID, models.EventCompleted, "Analysis completed", map[string]any{
		"hours":          report.Hours,
		"recommendation": report.Recommendation.Mode,
		"active_cooling": report.Recommendation.ActiveCooling,
	})
}

func (s *RunnerService) appendEvent(ctx context.Context, runID, typ, msg string, meta map[string]any) {
	ev := models.RunEvent{
		EventID:     uuid.NewString(),
		RunID:       runID,
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		Description: msg,
	}
	if meta != nil {
		ev.Metadata = meta
	}
	if err := s.eventRepo.Append(ctx, ev); err != nil {
		s.log.Warnw("event_append_failed", "run_id", runID, "type", typ, "error", err)
	}
}
