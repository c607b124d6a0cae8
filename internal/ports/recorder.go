package ports

import (
	"context"
	"time"
)

// Outcome labels reported to a Recorder.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Recorder observes service operations.
type Recorder interface {
	Observe(ctx context.Context, operation, outcome string, duration time.Duration)
}

// NopRecorder discards observations.
type NopRecorder struct{}

// Observe implements Recorder.
func (NopRecorder) Observe(context.Context, string, string, time.Duration) {}
