// Package stats records admission outcomes. Recording is best effort: callers
// log a failed Record and carry on.
package stats

import (
	"context"
	"time"
)

type Outcome string

const (
	OutcomeAccepted         Outcome = "accepted"
	OutcomeAlreadyApplied   Outcome = "already_applied"
	OutcomeCapacityExceeded Outcome = "capacity_exceeded"
	OutcomeLectureNotFound  Outcome = "lecture_not_found"
	OutcomeFailed           Outcome = "failed"
)

type Event struct {
	LectureID int64
	UserID    int64
	Outcome   Outcome
	At        time.Time
}

type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Record(context.Context, Event) error { return nil }
