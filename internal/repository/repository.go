package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"feasibility_analysis/internal/models"
)

var (
	// ErrRunNotFound is returned by updates addressing an unknown run.
	ErrRunNotFound = errors.New("run not found")
	// ErrUserExists is returned when a username is already taken.
	ErrUserExists = errors.New("user already exists")
)

type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type RunRepo interface {
	Create(ctx context.Context, run models.Run) error
	Get(ctx context.Context, id string) (*models.Run, error)
	List(ctx context.Context, status string, limit int) ([]models.Run, error)
	Update(ctx context.Context, run models.Run) error
	ClaimPending(ctx context.Context, limit int) ([]models.Run, error)
	ResetRunning(ctx context.Context) (int, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.RunEvent) error
	List(ctx context.Context, runID string, from, to time.Time, typ string) ([]models.RunEvent, error)
}

type Repository struct {
	RunRepo   RunRepo
	EventRepo EventRepo
	Auth      Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		RunRepo:   NewRunSQLite(db),
		EventRepo: NewEventSQLite(db),
		Auth:      NewUserRepository(db),
	}
}

// timeLayout is how timestamps are written, so that text comparison orders them.
const timeLayout = "2006-01-02 15:04:05.000"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func nullTime(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return formatTime(*t)
}

// dbTime scans a timestamp column whether the driver hands back a time.Time
// or the stored text, which happens for RETURNING columns.
type dbTime struct {
	Time  time.Time
	Valid bool
}

func (t *dbTime) Scan(v any) error {
	switch x := v.(type) {
	case nil:
		*t = dbTime{}
		return nil
	case time.Time:
		*t = dbTime{Time: x.UTC(), Valid: true}
		return nil
	case string:
		return t.parse(x)
	case []byte:
		return t.parse(string(x))
	default:
		return fmt.Errorf("unsupported timestamp type %T", v)
	}
}

func (t *dbTime) parse(s string) error {
	for _, layout := range []string{timeLayout, time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = dbTime{Time: parsed.UTC(), Valid: true}
			return nil
		}
	}
	return fmt.Errorf("parse timestamp %q", s)
}
