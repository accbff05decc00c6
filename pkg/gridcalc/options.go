// Package gridcalc provides the spreadsheet formula and dependency engine.
package gridcalc

import (
	"log/slog"
	"time"
)

// DefaultHistoryLimit is the number of snapshots an Engine retains when
// Options.HistoryLimit is unset.
const DefaultHistoryLimit = 32

// Recorder receives engine activity, typically for metrics.
type Recorder interface {
	// RecordCommit is called after every committed edit. kind is "literal",
	// "formula" or "error"; evaluated is the number of downstream formula
	// cells re-evaluated.
	RecordCommit(kind string, evaluated int, elapsed time.Duration)
	// RecordTransform is called after a transform over cells addresses.
	RecordTransform(name string, cells int)
	// RecordStyle is called after a style property is applied to cells addresses.
	RecordStyle(property string, cells int)
}

// Options configures an Engine.
type Options struct {
	// Logger receives debug logs of engine operations.
	// If nil, logs are discarded.
	Logger *slog.Logger
	// Recorder receives engine activity.
	// If nil, activity is not recorded.
	Recorder Recorder
	// HistoryLimit is the number of snapshots retained for At.
	// If nil or below 1, defaults to DefaultHistoryLimit.
	HistoryLimit *int
	// SessionID tags every log record of the engine.
	// If empty, a random UUID is generated.
	SessionID string
}

// DefaultOptions returns default engine options.
func DefaultOptions() Options {
	return Options{}
}

// EffectiveHistoryLimit returns the number of snapshots to retain.
func (o Options) EffectiveHistoryLimit() int {
	if o.HistoryLimit != nil && *o.HistoryLimit >= 1 {
		return *o.HistoryLimit
	}
	return DefaultHistoryLimit
}

type nopRecorder struct{}

func (nopRecorder) RecordCommit(string, int, time.Duration) {}
func (nopRecorder) RecordTransform(string, int)             {}
func (nopRecorder) RecordStyle(string, int)                 {}
