package repository

import (
	"database/sql/driver"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"feasibility_analysis/internal/models"
	"feasibility_analysis/internal/repository/db"
)

var runRowColumns = []string{"id", "status", "request", "report", "error", "created_by", "created_at", "started_at", "finished_at"}

func newMockRuns(t *testing.T) (*RunSQLite, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("mock expectations: %v", err)
		}
		_ = conn.Close()
	})
	return NewRunSQLite(conn), mock
}

func TestRunCreate_FillsDefaults(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRuns(t)

	mock.ExpectExec(regexp.QuoteMeta(insertRunSQL)).
		WithArgs(sqlmock.AnyArg(), "PENDING", `{"climate":{"zone":"2A"},"parameters":{}}`,
			nil, nil, 7, sqlmock.AnyArg(), nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(ctx(t), models.Run{
		Status:    "pending",
		Request:   models.AnalysisRequest{Climate: models.ClimateSource{Zone: "2A"}},
		CreatedBy: 7,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestRunCreate_DBError(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRuns(t)

	mock.ExpectExec("INSERT INTO runs").WillReturnError(errors.New("disk full"))

	err := repo.Create(ctx(t), models.Run{ID: "r1", Status: models.RunPending})
	if err == nil || !strings.Contains(err.Error(), "disk full") || !strings.Contains(err.Error(), "r1") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestRunGet(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRuns(t)

	created := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	started := created.Add(time.Second)
	rows := sqlmock.NewRows(runRowColumns).
		AddRow("r1", "COMPLETED", `{"climate":{"zone":"0B"},"parameters":{},"include_hours":false}`,
			`{"location":"0B Abu Dhabi (2001-2020)","hours":8760,"humidification":true,"components":null,"parameters":{"t_su_min":16,"t_su_max":20,"t_reg":70,"t_in":26,"rh_in":0.5,"w_in":0.0105,"t_wb_in":18.7},"zones":null,"boundaries":null,"recommendation":{"mode":"DEC","components":null,"comfort_hours":8700,"share":0.99,"threshold":0.98,"active_cooling":false,"message":""}}`,
			nil, 3, "2025-05-01 08:00:00.000", started, nil)

	mock.ExpectQuery(regexp.QuoteMeta(selectRunSQL)).WithArgs("r1").WillReturnRows(rows)

	got, err := repo.Get(ctx(t), "r1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.ID != "r1" || got.Status != models.RunCompleted || got.CreatedBy != 3 {
		t.Fatalf("unexpected run: %+v", got)
	}
	if got.Request.Climate.Zone != "0B" {
		t.Fatalf("request not decoded: %+v", got.Request)
	}
	if got.Report == nil || got.Report.Hours != 8760 || got.Report.Recommendation.Mode != "DEC" {
		t.Fatalf("report not decoded: %+v", got.Report)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, created)
	}
	if got.StartedAt == nil || !got.StartedAt.Equal(started) || got.FinishedAt != nil {
		t.Fatalf("timestamps: started=%v finished=%v", got.StartedAt, got.FinishedAt)
	}
}

func TestRunGet_NotFound(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRuns(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectRunSQL)).WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(runRowColumns))

	got, err := repo.Get(ctx(t), "nope")
	if err != nil || got != nil {
		t.Fatalf("want (nil, nil), got (%v, %v)", got, err)
	}
}

func TestRunGet_BadRequestJSON(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRuns(t)

	rows := sqlmock.NewRows(runRowColumns).
		AddRow("r1", "PENDING", "{", nil, nil, 0, "2025-05-01 08:00:00.000", nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta(selectRunSQL)).WithArgs("r1").WillReturnRows(rows)

	if _, err := repo.Get(ctx(t), "r1"); err == nil || !strings.Contains(err.Error(), "decode request") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestRunList(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		limit    int
		query    string
		args     []driver.Value
		wantRows int
	}{
		{
			name:     "no filter uses default limit",
			query:    `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC LIMIT ?`,
			args:     []driver.Value{defaultListLimit},
			wantRows: 2,
		},
		{
			name:     "status filter",
			status:   " failed ",
			limit:    5,
			query:    `SELECT ` + runColumns + ` FROM runs WHERE status = ? ORDER BY created_at DESC LIMIT ?`,
			args:     []driver.Value{"FAILED", 5},
			wantRows: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRuns(t)

			rows := sqlmock.NewRows(runRowColumns)
			for i := 0; i < tt.wantRows; i++ {
				rows.AddRow("r"+string(rune('a'+i)), "FAILED", `{"climate":{},"parameters":{},"include_hours":false}`,
					nil, "boom", 0, "2025-05-01 08:00:00.000", nil, "2025-05-01 08:00:01.000")
			}

			mock.ExpectQuery(regexp.QuoteMeta(tt.query)).WithArgs(tt.args...).WillReturnRows(rows)

			got, err := repo.List(ctx(t), tt.status, tt.limit)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != tt.wantRows {
				t.Fatalf("want %d rows, got %d", tt.wantRows, len(got))
			}
			if got[0].Error != "boom" || got[0].FinishedAt == nil {
				t.Fatalf("unexpected row: %+v", got[0])
			}
		})
	}
}

func TestRunUpdate(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRuns(t)

	finished := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(updateRunSQL)).
		WithArgs("FAILED", nil, "no data", nil, "2025-05-01 09:00:00.000", "r1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(ctx(t), models.Run{ID: "r1", Status: models.RunFailed, Error: "no data", FinishedAt: &finished})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func TestRunUpdate_NotFound(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRuns(t)

	mock.ExpectExec(regexp.QuoteMeta(updateRunSQL)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(ctx(t), models.Run{ID: "ghost", Status: models.RunCompleted})
	if !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("want ErrRunNotFound, got %v", err)
	}
}

func TestRunClaimPending(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRuns(t)

	rows := sqlmock.NewRows(runRowColumns).
		AddRow("late", "RUNNING", `{"climate":{},"parameters":{},"include_hours":false}`, nil, nil, 0,
			"2025-05-01 08:00:02.000", "2025-05-01 09:00:00.000", nil).
		AddRow("early", "RUNNING", `{"climate":{},"parameters":{},"include_hours":false}`, nil, nil, 0,
			"2025-05-01 08:00:01.000", "2025-05-01 09:00:00.000", nil)

	mock.ExpectQuery(regexp.QuoteMeta(claimRunsSQL)).
		WithArgs("RUNNING", sqlmock.AnyArg(), "PENDING", 2).
		WillReturnRows(rows)

	got, err := repo.ClaimPending(ctx(t), 2)
	if err != nil {
		t.Fatalf("ClaimPending: %v", err)
	}
	if len(got) != 2 || got[0].ID != "early" || got[1].ID != "late" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0].StartedAt == nil {
		t.Fatalf("started_at not scanned")
	}
}

func TestRunClaimPending_ZeroLimit(t *testing.T) {
	t.Parallel()
	repo, _ := newMockRuns(t)

	got, err := repo.ClaimPending(ctx(t), 0)
	if err != nil || got != nil {
		t.Fatalf("want (nil, nil), got (%v, %v)", got, err)
	}
}

func TestRunResetRunning(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRuns(t)

	mock.ExpectExec(regexp.QuoteMeta(resetRunsSQL)).
		WithArgs("PENDING", "RUNNING").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.ResetRunning(ctx(t))
	if err != nil {
		t.Fatalf("ResetRunning: %v", err)
	}
	if n != 3 {
		t.Fatalf("reset %d runs, want 3", n)
	}
}

func TestRunLifecycle_SQLite(t *testing.T) {
	conn, err := db.InitDB(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	repos := NewRepository(conn)
	c := ctx(t)

	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		run := models.Run{
			ID:        id,
			Status:    models.RunPending,
			Request:   models.AnalysisRequest{Climate: models.ClimateSource{Zone: "3B"}},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repos.RunRepo.Create(c, run); err != nil {
			t.Fatalf("Create %s: %v", id, err)
		}
	}

	claimed, err := repos.RunRepo.ClaimPending(c, 2)
	if err != nil {
		t.Fatalf("ClaimPending: %v", err)
	}
	if len(claimed) != 2 || claimed[0].ID != "a" || claimed[1].ID != "b" {
		t.Fatalf("claimed %+v", claimed)
	}
	if claimed[0].Status != models.RunRunning || claimed[0].StartedAt == nil {
		t.Fatalf("claim did not mark running: %+v", claimed[0])
	}

	done := claimed[0]
	finished := base.Add(time.Hour)
	done.Status = models.RunCompleted
	done.FinishedAt = &finished
	done.Report = &models.Report{Location: "3B Los Angeles (2001-2020)", Hours: 2}
	if err := repos.RunRepo.Update(c, done); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repos.RunRepo.Get(c, "a")
	if err != nil || got == nil {
		t.Fatalf("Get: %v %v", got, err)
	}
	if got.Status != models.RunCompleted || got.Report == nil || got.Report.Hours != 2 || !got.FinishedAt.Equal(finished) {
		t.Fatalf("unexpected stored run: %+v", got)
	}

	pending, err := repos.RunRepo.List(c, models.RunPending, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "c" {
		t.Fatalf("pending = %+v", pending)
	}

	// "b" was claimed but never finished, as after a crash
	reset, err := repos.RunRepo.ResetRunning(c)
	if err != nil {
		t.Fatalf("ResetRunning: %v", err)
	}
	if reset != 1 {
		t.Fatalf("reset %d runs, want 1", reset)
	}
	requeued, err := repos.RunRepo.Get(c, "b")
	if err != nil || requeued == nil {
		t.Fatalf("Get: %v %v", requeued, err)
	}
	if requeued.Status != models.RunPending || requeued.StartedAt != nil {
		t.Fatalf("run not requeued: %+v", requeued)
	}
	reclaimed, err := repos.RunRepo.ClaimPending(c, 1)
	if err != nil {
		t.Fatalf("ClaimPending: %v", err)
	}
	if len(reclaimed) != 1 || reclaimed[0].ID != "b" {
		t.Fatalf("reclaimed %+v", reclaimed)
	}

	if err := repos.EventRepo.Append(c, models.RunEvent{RunID: "a", Type: models.EventCompleted, Description: "done", OccurredAt: finished}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	events, err := repos.EventRepo.List(c, "a", base, time.Time{}, "")
	if err != nil {
		t.Fatalf("List events: %v", err)
	}
	if len(events) != 1 || !events[0].OccurredAt.Equal(finished) {
		t.Fatalf("events = %+v", events)
	}
}
