package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"feasibility_analysis/internal/models"
)

// fakeEventRepo is a minimal stub that satisfies the repository.EventRepo interface.
type fakeEventRepo struct {
	mu sync.Mutex

	// captured inputs
	gotRunID string
	gotFrom  time.Time
	gotTo    time.Time
	gotType  string
	appended []models.RunEvent

	// configured outputs
	events    []models.RunEvent
	err       error
	appendErr error

	calls int
}

func (f *fakeEventRepo) List(_ context.Context, runID string, from, to time.Time, typ string) ([]models.RunEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotRunID = runID
	f.gotFrom = from
	f.gotTo = to
	f.gotType = typ
	return f.events, f.err
}

func (f *fakeEventRepo) Append(_ context.Context, e models.RunEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, e)
	return f.appendErr
}

func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.appended))
	for i, e := range f.appended {
		out[i] = e.Type
	}
	return out
}

func fixedZone(name string, offsetSec int) *time.Location {
	return time.FixedZone(name, offsetSec)
}

func mustTimeIn(loc *time.Location, y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, loc)
}

func Test_normalizeToUTC(t *testing.T) {
	t.Parallel()

	if out := normalizeToUTC(time.Time{}); !out.IsZero() {
		t.Fatalf("zero time should stay zero, got %v", out)
	}
	in := mustTimeIn(fixedZone("UTC+3", 3*3600), 2025, time.August, 1, 12, 34, 56)
	out := normalizeToUTC(in)
	exp := time.Date(2025, time.August, 1, 9, 34, 56, 0, time.UTC)
	if out.Location() != time.UTC || !out.Equal(exp) {
		t.Fatalf("got %v, want %v", out, exp)
	}
}

func Test_normalizeAndValidateFilter(t *testing.T) {
	t.Parallel()

	fromLocal := mustTimeIn(fixedZone("UTC+2", 2*3600), 2025, time.September, 10, 10, 0, 0)
	toUTC := time.Date(2025, time.September, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		in      LogFilter
		want    LogFilter
		wantErr error
	}{
		{
			name: "all zero/empty ok",
			in:   LogFilter{},
			want: LogFilter{},
		},
		{
			name: "from after to -> error",
			in: LogFilter{
				From: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
				To:   time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC),
			},
			wantErr: errInvalidTimeRange,
		},
		{
			name:    "unknown type -> error",
			in:      LogFilter{Type: "mode_change"},
			wantErr: errInvalidEventType,
		},
		{
			name: "normalize run, tz and type",
			in: LogFilter{
				RunID: " run-1 ",
				From:  fromLocal,
				To:    toUTC,
				Type:  " failed ",
			},
			want: LogFilter{
				RunID: "run-1",
				From:  time.Date(2025, time.September, 10, 8, 0, 0, 0, time.UTC),
				To:    toUTC,
				Type:  "FAILED",
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := normalizeAndValidateFilter(tc.in)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected err %v; got %v", tc.wantErr, err)
			}
			if err != nil {
				return
			}
			if got.RunID != tc.want.RunID || got.Type != tc.want.Type || !got.From.Equal(tc.want.From) || !got.To.Equal(tc.want.To) {
				t.Fatalf("got %+v; want %+v", got, tc.want)
			}
		})
	}
}

func TestEventLogService_List_DelegatesNormalizedParams(t *testing.T) {
	t.Parallel()

	frepo := &fakeEventRepo{events: []models.RunEvent{{EventID: "1", RunID: "r"}}}
	svc := NewEventLogService(frepo)

	fromLocal := mustTimeIn(fixedZone("UTC+5", 5*3600), 2025, time.October, 1, 10, 0, 0)
	toLocal := mustTimeIn(fixedZone("UTC-2", -2*3600), 2025, time.October, 1, 12, 30, 0)

	out, err := svc.List(context.Background(), LogFilter{RunID: "r", From: fromLocal, To: toLocal, Type: "  started "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].EventID != "1" {
		t.Fatalf("unexpected events: %+v", out)
	}
	if frepo.calls != 1 {
		t.Fatalf("repo List should be called once, got %d", frepo.calls)
	}

	wantFrom := time.Date(2025, time.October, 1, 5, 0, 0, 0, time.UTC)
	wantTo := time.Date(2025, time.October, 1, 14, 30, 0, 0, time.UTC)
	if frepo.gotRunID != "r" || !frepo.gotFrom.Equal(wantFrom) || !frepo.gotTo.Equal(wantTo) || frepo.gotType != "STARTED" {
		t.Fatalf("repo got run=%q from=%v to=%v type=%q", frepo.gotRunID, frepo.gotFrom, frepo.gotTo, frepo.gotType)
	}
}

func TestEventLogService_List_ValidationError(t *testing.T) {
	t.Parallel()

	frepo := &fakeEventRepo{}
	svc := NewEventLogService(frepo)

	_, err := svc.List(context.Background(), LogFilter{
		From: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC),
	})
	if !IsFilterError(err) {
		t.Fatalf("expected filter error; got %v", err)
	}
	if frepo.calls != 0 {
		t.Fatalf("repo should not be called on validation error, calls=%d", frepo.calls)
	}
}

func TestEventLogService_List_RepoErrorPropagation(t *testing.T) {
	t.Parallel()

	frepo := &fakeEventRepo{err: errors.New("db down")}
	svc := NewEventLogService(frepo)

	_, err := svc.List(context.Background(), LogFilter{})
	if !errors.Is(err, frepo.err) {
		t.Fatalf("expected repo error to propagate; got %v", err)
	}
	if IsFilterError(err) {
		t.Fatalf("repo error must not be reported as a filter error")
	}
}
