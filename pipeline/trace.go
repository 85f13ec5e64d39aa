package pipeline

import (
	"time"
)

type DebugLevel string

const (
	LevelNone  DebugLevel = ""
	LevelDebug DebugLevel = "debug"
	LevelInfo  DebugLevel = "info"
	LevelWarn  DebugLevel = "warn"
	LevelError DebugLevel = "error"
	LevelCrit  DebugLevel = "crit"
)

// ParseDebugLevel maps a user-supplied debug parameter to a level. Anything
// unrecognized means "no debug requested" rather than an error.
func ParseDebugLevel(s string) DebugLevel {
	switch s {
	case "debug", "info", "warn", "error", "crit":
		return DebugLevel(s)
	default:
		return LevelNone
	}
}

type DebugStage struct {
	Name       string                 `json:"name"`
	DurationMs int64                  `json:"durationMs"`
	Detail     map[string]interface{} `json:"detail,omitempty"`
}

type DebugInfo struct {
	Level      DebugLevel   `json:"level"`
	DurationMs int64        `json:"durationMs"`
	Stages     []DebugStage `json:"stages"`
	Error      string       `json:"error,omitempty"`
}

// Trace accumulates per-stage diagnostics across a request. A trace built
// from LevelNone swallows everything and snapshots to nil, so callers can
// record stages unconditionally.
type Trace struct {
	level     DebugLevel
	startedAt time.Time
	stages    []DebugStage
	failure   string
}

func NewTrace(level DebugLevel) *Trace {
	return &Trace{
		level:     level,
		startedAt: time.Now(),
		stages:    make([]DebugStage, 0),
	}
}

func (t *Trace) Enabled() bool {
	return t.level != LevelNone
}

// Step records a completed stage. startedAt is when the stage began.
func (t *Trace) Step(name string, startedAt time.Time, detail map[string]interface{}) {
	if !t.Enabled() {
		return
	}
	t.stages = append(t.stages, DebugStage{
		Name:       name,
		DurationMs: time.Since(startedAt).Milliseconds(),
		Detail:     detail,
	})
}

// Fail records the failure that ended the request. Only the first failure
// is kept.
func (t *Trace) Fail(err error) {
	if err == nil || t.failure != "" {
		return
	}
	t.failure = err.Error()
}

// Snapshot freezes the trace into its wire form. Returns nil when no debug
// level was requested.
func (t *Trace) Snapshot() *DebugInfo {
	if !t.Enabled() {
		return nil
	}
	return &DebugInfo{
		Level:      t.level,
		DurationMs: time.Since(t.startedAt).Milliseconds(),
		Stages:     t.stages,
		Error:      t.failure,
	}
}
