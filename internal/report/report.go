// Package report aggregates check outcomes into the versioned run report and
// persists it.
package report

import (
	"log/slog"

	"github.com/phart/autosac5/internal/config"
)

// Status is the tri-state result of attempting a check.
type Status string

const (
	// StatusSkipped means the check was disabled and never invoked.
	StatusSkipped Status = "skipped"
	// StatusCompleted means the check ran and produced its own payload.
	StatusCompleted Status = "completed"
	// StatusFailed means resolution or execution failed at the engine level.
	StatusFailed Status = "failed"
)

// Outcome is created by the engine exactly once per check spec.
type Outcome struct {
	Status Status
	// Result is the check's own payload. Only set for StatusCompleted.
	Result any
	// Error is the engine-level failure message. Only set for StatusFailed.
	Error string
}

// Skipped returns the outcome of a disabled spec.
func Skipped() Outcome { return Outcome{Status: StatusSkipped} }

// Completed wraps a check's own payload.
func Completed(result any) Outcome {
	return Outcome{Status: StatusCompleted, Result: result}
}

// Failed records an engine-level failure as data.
func Failed(msg string) Outcome { return Outcome{Status: StatusFailed, Error: msg} }

// payload renders the outcome as the report's "result" value. Failed and
// skipped outcomes get fixed marker shapes; completed payloads pass through
// untouched.
func (o Outcome) payload() any {
	switch o.Status {
	case StatusSkipped:
		return map[string]any{"skipped": true}
	case StatusFailed:
		return map[string]any{"success": false, "error": o.Error}
	default:
		return o.Result
	}
}

// Entry is one check's invocation context paired with its result payload.
type Entry struct {
	F      string         `json:"f"`
	Args   []any          `json:"args"`
	Kwargs map[string]any `json:"kwargs"`
	Result any            `json:"result"`
}

// Report is the aggregated, versioned record of all outcomes for one run.
type Report struct {
	Version string           `json:"version"`
	Results map[string]Entry `json:"results"`

	// Insertion order of first occurrence, for the terminal summary.
	order    []string
	outcomes map[string]Outcome
}

// New returns an empty report stamped with the tool version.
func New(version string) *Report {
	return &Report{
		Version:  version,
		Results:  map[string]Entry{},
		outcomes: map[string]Outcome{},
	}
}

// Record stores the outcome for spec keyed by its display name. Duplicate
// names are last-write-wins; the overwrite is logged so the operator can fix
// the config.
func (r *Report) Record(spec config.CheckSpec, out Outcome) {
	if _, dup := r.Results[spec.Name]; dup {
		slog.Warn("duplicate check name in config, overwriting earlier result", "name", spec.Name)
	} else {
		r.order = append(r.order, spec.Name)
	}
	r.Results[spec.Name] = Entry{
		F:      spec.F,
		Args:   spec.Args,
		Kwargs: spec.Kwargs,
		Result: out.payload(),
	}
	r.outcomes[spec.Name] = out
}

// Line is one row of the terminal summary table.
type Line struct {
	Name   string
	Status Status
	Detail string
}

// Lines returns one summary row per recorded check, in config order.
func (r *Report) Lines() []Line {
	lines := make([]Line, 0, len(r.order))
	for _, name := range r.order {
		out := r.outcomes[name]
		lines = append(lines, Line{Name: name, Status: out.Status, Detail: out.Error})
	}
	return lines
}

// Outcome returns the recorded outcome for name.
func (r *Report) Outcome(name string) (Outcome, bool) {
	out, ok := r.outcomes[name]
	return out, ok
}
