// Package metrics records the outcome and latency of notebook operations.
package metrics

import (
	"context"
	"time"
)

// Recorder observes an operation outcome. Operations are short snake_case
// names such as "persistence_save" or "action_submit".
type Recorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// Noop discards every observation.
type Noop struct{}

// Observe implements Recorder.
func (Noop) Observe(context.Context, string, bool, time.Duration) {}

// Since observes the time elapsed from start. Typical use:
//
//	defer metrics.Since(ctx, rec, "persistence_load", time.Now(), &ok)
func Since(ctx context.Context, rec Recorder, operation string, start time.Time, success *bool) {
	if rec == nil {
		return
	}
	ok := success != nil && *success
	rec.Observe(ctx, operation, ok, time.Since(start))
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
