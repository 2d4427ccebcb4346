package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"feasibility_analysis/internal/models"
	"feasibility_analysis/internal/repository"
)

// LogFilter narrows the run log by run, time range and event type.
type LogFilter struct {
	RunID string    // empty means every run
	From  time.Time // inclusive; zero means no lower bound
	To    time.Time // inclusive; zero means no upper bound
	Type  string    // "", "QUEUED", "STARTED", "COMPLETED", "FAILED"
}

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

var (
	errInvalidTimeRange = errors.New("invalid time range: From must be <= To")
	errInvalidEventType = errors.New("invalid event type: must be QUEUED, STARTED, COMPLETED or FAILED")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

func validEventType(s string) bool {
	switch s {
	case "", models.EventQueued, models.EventStarted, models.EventCompleted, models.EventFailed:
		return true
	}
	return false
}

// normalizeAndValidateFilter returns f with times in UTC and the type
// uppercased, or an error for an inverted range or unknown type.
func normalizeAndValidateFilter(f LogFilter) (LogFilter, error) {
	out := LogFilter{
		RunID: strings.TrimSpace(f.RunID),
		From:  normalizeToUTC(f.From),
		To:    normalizeToUTC(f.To),
		Type:  normalizeEventType(f.Type),
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return LogFilter{}, errInvalidTimeRange
	}
	if !validEventType(out.Type) {
		return LogFilter{}, errInvalidEventType
	}
	return out, nil
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.RunEvent, error) {
	f, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, f.RunID, f.From, f.To, f.Type)
}

// IsFilterError reports whether err comes from an invalid log filter.
func IsFilterError(err error) bool {
	return errors.Is(err, errInvalidTimeRange) || errors.Is(err, errInvalidEventType)
}
