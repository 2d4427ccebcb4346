package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"feasibility_analysis/internal/models"
)

type RunSQLite struct {
	db *sql.DB
}

func NewRunSQLite(db *sql.DB) *RunSQLite {
	return &RunSQLite{db: db}
}

var _ RunRepo = (*RunSQLite)(nil)

const defaultListLimit = 100

const (
	runColumns = `id, status, request, report, error, created_by, created_at, started_at, finished_at`

	insertRunSQL = `
		INSERT INTO runs (id, status, request, report, error, created_by, created_at, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectRunSQL = `SELECT ` + runColumns + ` FROM runs WHERE id = ?`

	updateRunSQL = `
		UPDATE runs SET status = ?, report = ?, error = ?, started_at = ?, finished_at = ?
		WHERE id = ?
	`

	claimRunsSQL = `
		UPDATE runs SET status = ?, started_at = ?
		WHERE id IN (SELECT id FROM runs WHERE status = ? ORDER BY created_at ASC LIMIT ?)
		RETURNING ` + runColumns

	resetRunsSQL = `UPDATE runs SET status = ?, started_at = NULL WHERE status = ?`
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func marshalReport(r *models.Report) (any, error) {
	if r == nil {
		return nil, nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func scanRun(s scanner) (models.Run, error) {
	var (
		run       models.Run
		request   string
		report    sql.NullString
		errMsg    sql.NullString
		started   dbTime
		finished  dbTime
		createdAt dbTime
	)
	if err := s.Scan(&run.ID, &run.Status, &request, &report, &errMsg, &run.CreatedBy, &createdAt, &started, &finished); err != nil {
		return models.Run{}, err
	}
	if err := json.Unmarshal([]byte(request), &run.Request); err != nil {
		return models.Run{}, fmt.Errorf("decode request of run %s: %w", run.ID, err)
	}
	if report.Valid && report.String != "" {
		var rep models.Report
		if err := json.Unmarshal([]byte(report.String), &rep); err != nil {
			return models.Run{}, fmt.Errorf("decode report of run %s: %w", run.ID, err)
		}
		run.Report = &rep
	}
	run.Error = errMsg.String
	run.CreatedAt = createdAt.Time
	if started.Valid {
		t := started.Time
		run.StartedAt = &t
	}
	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	return run, nil
}

// Create inserts a run. An empty ID or zero CreatedAt are filled in.
func (r *RunSQLite) Create(ctx context.Context, run models.Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	request, err := json.Marshal(run.Request)
	if err != nil {
		return fmt.Errorf("encode request of run %s: %w", run.ID, err)
	}
	report, err := marshalReport(run.Report)
	if err != nil {
		return fmt.Errorf("encode report of run %s: %w", run.ID, err)
	}

	_, err = r.db.ExecContext(ctx, insertRunSQL,
		run.ID,
		strings.ToUpper(run.Status),
		string(request),
		report,
		nullString(run.Error),
		run.CreatedBy,
		formatTime(run.CreatedAt),
		nullTime(run.StartedAt),
		nullTime(run.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// Get fetches a run by ID. Returns (nil, nil) if not found.
func (r *RunSQLite) Get(ctx context.Context, id string) (*models.Run, error) {
	run, err := scanRun(r.db.QueryRowContext(ctx, selectRunSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select run %s: %w", id, err)
	}
	return &run, nil
}

// List returns the newest runs first, optionally filtered by status.
func (r *RunSQLite) List(ctx context.Context, status string, limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var args []any
	q := `SELECT ` + runColumns + ` FROM runs`
	if status = strings.ToUpper(strings.TrimSpace(status)); status != "" {
		q += " WHERE status = ?"
		args = append(args, status)
	}
	q += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	out := make([]models.Run, 0, limit)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update writes the mutable fields of a run: status, report, error and timestamps.
func (r *RunSQLite) Update(ctx context.Context, run models.Run) error {
	report, err := marshalReport(run.Report)
	if err != nil {
		return fmt.Errorf("encode report of run %s: %w", run.ID, err)
	}
	res, err := r.db.ExecContext(ctx, updateRunSQL,
		strings.ToUpper(run.Status),
		report,
		nullString(run.Error),
		nullTime(run.StartedAt),
		nullTime(run.FinishedAt),
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("update run %s: %w", run.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for run %s: %w", run.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("update run %s: %w", run.ID, ErrRunNotFound)
	}
	return nil
}

// ClaimPending marks up to limit of the oldest pending runs as running and
// returns them, oldest first.
func (r *RunSQLite) ClaimPending(ctx context.Context, limit int) ([]models.Run, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, claimRunsSQL,
		models.RunRunning,
		formatTime(time.Now()),
		models.RunPending,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("claim pending runs: %w", err)
	}
	defer rows.Close()

	var out []models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ResetRunning returns every running run to pending and reports how many were
// reset. Runs left running by a stopped process are picked up again.
func (r *RunSQLite) ResetRunning(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, resetRunsSQL, models.RunPending, models.RunRunning)
	if err != nil {
		return 0, fmt.Errorf("reset running runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected for reset: %w", err)
	}
	return int(n), nil
}
