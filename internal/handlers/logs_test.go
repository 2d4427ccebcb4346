package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"feasibility_analysis/internal/models"
	"feasibility_analysis/internal/service"
)

func TestLogsHandler_ListAndValidation(t *testing.T) {
	auth := &mockAuth{parseID: 99}
	now := time.Now().UTC().Truncate(time.Second)
	events := []models.RunEvent{
		{EventID: "e1", RunID: "r1", OccurredAt: now, Type: models.EventQueued, Description: "queued"},
		{EventID: "e2", RunID: "r1", OccurredAt: now.Add(1 * time.Second), Type: models.EventStarted, Description: "started"},
	}
	logs := &mockEventLog{resp: events}
	s := &service.Service{
		Authorization: auth,
		EventLog:      logs,
	}
	r := newTestRouter(s)

	// Invalid 'from' → 400
	w := httptest.NewRecorder()
	r.ServeHTTP(w, newAuthedRequest(http.MethodGet, "/api/v1/logs/?from=notatime", ""))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid 'from', got %d", w.Code)
	}

	// Valid range, run and type (lowercase type is uppercased before the service call)
	w = httptest.NewRecorder()
	q := "/api/v1/logs/?from=" + now.Format(time.RFC3339) + "&to=" + now.Add(2*time.Second).Format(time.RFC3339) + "&type=started&run_id=r1"
	r.ServeHTTP(w, newAuthedRequest(http.MethodGet, q, ""))
	if w.Code != http.StatusOK {
		t.Fatalf("logs status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count  int               `json:"count"`
		Events []models.RunEvent `json:"events"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 2 || len(out.Events) != 2 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if logs.lastType != models.EventStarted || logs.lastRunID != "r1" {
		t.Fatalf("filter not forwarded: type=%q run=%q", logs.lastType, logs.lastRunID)
	}
	if !logs.lastFrom.Equal(now) {
		t.Fatalf("from = %v, want %v", logs.lastFrom, now)
	}
}

func TestLogsHandler_DateOnlyToIsEndOfDay(t *testing.T) {
	logs := &mockEventLog{}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, EventLog: logs})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, newAuthedRequest(http.MethodGet, "/api/v1/logs/?from=2025-08-01&to=2025-08-31", ""))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	want := time.Date(2025, 8, 31, 23, 59, 59, 999999999, time.UTC)
	if !logs.lastTo.Equal(want) {
		t.Fatalf("to = %v, want %v", logs.lastTo, want)
	}
}

func TestLogsHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		query    string
		log      service.EventLog
		wantCode int
	}{
		// the real service validates the filter before touching its repository
		{"inverted range", "?from=2025-09-01&to=2025-08-01", service.NewEventLogService(nil), http.StatusBadRequest},
		{"unknown type", "?type=mode_change", service.NewEventLogService(nil), http.StatusBadRequest},
		{"bad to", "?to=yesterday", &mockEventLog{}, http.StatusBadRequest},
		{"store failure", "", &mockEventLog{err: errors.New("db down")}, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, EventLog: tc.log})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, newAuthedRequest(http.MethodGet, "/api/v1/logs/"+tc.query, ""))
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
		})
	}
}
