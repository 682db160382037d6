// Package engine dispatches config entries to registered checks and
// aggregates their outcomes.
//
// The engine's one hard rule is that a broken check never kills the run:
// unknown identifiers, returned errors and panics are all captured at the
// invocation boundary and recorded as failed report entries. Only config
// loading and report persistence are allowed to abort the process, and both
// happen outside this package.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phart/autosac5/internal/config"
	"github.com/phart/autosac5/internal/registry"
	"github.com/phart/autosac5/internal/report"
)

// Runner executes a check list sequentially, in config order.
type Runner struct {
	registry *registry.Registry
	version  string
}

// New returns a runner resolving checks against reg. version stamps the
// produced reports.
func New(reg *registry.Registry, version string) *Runner {
	return &Runner{registry: reg, version: version}
}

// Run invokes every spec one at a time and returns the completed report.
// Checks run strictly sequentially; a slow check blocks the run unless the
// spec carries a timeout.
func (r *Runner) Run(ctx context.Context, specs []config.CheckSpec) *report.Report {
	rep := report.New(r.version)

	for _, spec := range specs {
		out := r.invoke(ctx, spec)
		rep.Record(spec, out)
	}

	return rep
}

// invoke runs a single spec inside the fault boundary. It always returns an
// outcome; nothing a check does unwinds past this function.
func (r *Runner) invoke(ctx context.Context, spec config.CheckSpec) (out report.Outcome) {
	if !spec.Enabled {
		slog.Info("check disabled, skipping", "name", spec.Name, "f", spec.F)
		return report.Skipped()
	}

	defer func() {
		if p := recover(); p != nil {
			slog.Error("check panicked", "name", spec.Name, "f", spec.F, "panic", p)
			out = report.Failed(fmt.Sprintf("check %q panicked: %v", spec.F, p))
		}
	}()

	chk, err := r.registry.Resolve(spec.F)
	if err != nil {
		slog.Error("check resolution failed", "name", spec.Name, "f", spec.F, "error", err)
		return report.Failed(err.Error())
	}

	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	slog.Info("running check", "name", spec.Name, "f", spec.F)
	start := time.Now()

	result, err := chk.Run(ctx, registry.Invocation{Args: spec.Args, Kwargs: spec.Kwargs})
	if err != nil {
		slog.Error("check failed", "name", spec.Name, "f", spec.F, "error", err)
		return report.Failed(err.Error())
	}

	slog.Debug("check completed", "name", spec.Name, "duration", time.Since(start))
	return report.Completed(result)
}
