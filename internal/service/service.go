package service

import (
	"context"
	"time"

	"feasibility_analysis/internal/climate"
	"feasibility_analysis/internal/config"
	"feasibility_analysis/internal/logger"
	"feasibility_analysis/internal/metrics"
	"feasibility_analysis/internal/models"
	"feasibility_analysis/internal/psychro"
	"feasibility_analysis/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Analysis runs the feasibility classification, either inline or queued.
type Analysis interface {
	Evaluate(ctx context.Context, req models.AnalysisRequest) (*models.Report, error)
	Submit(ctx context.Context, req models.AnalysisRequest, userID int) (models.Run, error)
}

// Runs exposes read access to submitted runs.
type Runs interface {
	GetRun(ctx context.Context, id string) (*models.Run, error)
	ListRuns(ctx context.Context, status string, limit int) ([]models.Run, error)
}

// EventLog exposes append-only run logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.RunEvent, error)
}

// Runner executes queued runs in the background.
// Stop via context cancellation in main() for graceful shutdown.
type Runner interface {
	Recover(ctx context.Context) (int, error)
	Run(ctx context.Context, tick time.Duration)
}

type Service struct {
	Analysis
	Runs
	EventLog
	Runner
	Authorization
}

// Deps carries what the services need besides the repositories.
type Deps struct {
	Analysis config.AnalysisConfig
	Auth     config.AuthConfig
	Batch    int
	Loader   DatasetLoader
	Oracle   psychro.Oracle
	Metrics  *metrics.Metrics
	Logger   *logger.Logger
}

func NewService(repos *repository.Repository, deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	if deps.Oracle == nil {
		deps.Oracle = psychro.New()
	}
	if deps.Loader == nil {
		deps.Loader = climate.NewLoader("", deps.Oracle)
	}
	analysis := NewAnalysisService(repos.RunRepo, repos.EventRepo, deps.Loader, deps.Analysis, deps.Oracle, deps.Metrics, deps.Logger)
	return &Service{
		Analysis:      analysis,
		Runs:          NewRunsService(repos.RunRepo),
		EventLog:      NewEventLogService(repos.EventRepo),
		Runner:        NewRunnerService(repos.RunRepo, repos.EventRepo, analysis, deps.Batch, deps.Metrics, deps.Logger),
		Authorization: NewAuthService(repos.Auth, deps.Auth.SigningKey, deps.Auth.TokenTTL),
	}
}
