package models

import "time"

// Run statuses.
const (
	RunPending   = "PENDING"
	RunRunning   = "RUNNING"
	RunCompleted = "COMPLETED"
	RunFailed    = "FAILED"
)

// Run is an analysis submitted through the API and executed in the background.
type Run struct {
	ID         string          `json:"id"`
	Status     string          `json:"status"` // PENDING | RUNNING | COMPLETED | FAILED
	Request    AnalysisRequest `json:"request"`
	Report     *Report         `json:"report,omitempty"`
	Error      string          `json:"error,omitempty"`
	CreatedBy  int             `json:"created_by"`
	CreatedAt  time.Time       `json:"created_at"`
	StartedAt  *time.Time      `json:"started_at,omitempty"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}

// Finished reports whether the run reached a terminal status.
func (r Run) Finished() bool {
	return r.Status == RunCompleted || r.Status == RunFailed
}

// Run event types.
const (
	EventQueued    = "QUEUED"
	EventStarted   = "STARTED"
	EventCompleted = "COMPLETED"
	EventFailed    = "FAILED"
)

// RunEvent is a single log entry of a run.
type RunEvent struct {
	EventID     string    `json:"event_id"`
	RunID       string    `json:"run_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // QUEUED | STARTED | COMPLETED | FAILED
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
