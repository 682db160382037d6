// Package registry maps the string check identifiers used in config files to
// the compiled Go implementations behind them.
//
// The registry is populated once at process start. Resolution fails closed:
// an identifier that was never registered yields an error, which the engine
// downgrades to a failed report entry rather than aborting the run.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownCheck indicates a config entry named a check that was never
// registered.
var ErrUnknownCheck = errors.New("unknown check")

// Invocation carries the declared arguments of one config entry into a check.
type Invocation struct {
	// Args are positional, order-preserving.
	Args []any
	// Kwargs are keyed arguments; each check decodes the subset it understands.
	Kwargs map[string]any
}

// Check is a single named unit of host inspection. Run returns the check's
// own success/failure payload; the engine never interprets its shape.
type Check interface {
	Run(ctx context.Context, inv Invocation) (any, error)
}

// Func adapts a plain function to the Check interface.
type Func func(ctx context.Context, inv Invocation) (any, error)

// Run implements Check.
func (f Func) Run(ctx context.Context, inv Invocation) (any, error) {
	return f(ctx, inv)
}

// Registration pairs a check with its identifier and a one-line description
// for the `autosac list` command.
type Registration struct {
	Name        string
	Description string
	Check       Check
}

// Registry is a lookup from check identifier to implementation.
type Registry struct {
	checks map[string]Registration
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{checks: map[string]Registration{}}
}

// Register adds a check under name. Registering the same name twice is a
// programming error and panics.
func (r *Registry) Register(name, description string, c Check) {
	if _, exists := r.checks[name]; exists {
		panic(fmt.Sprintf("check with name %q already registered", name))
	}
	r.checks[name] = Registration{Name: name, Description: description, Check: c}
}

// Resolve returns the check registered under name, or an error wrapping
// ErrUnknownCheck. Callers own the decision of whether that error is fatal.
func (r *Registry) Resolve(name string) (Check, error) {
	reg, ok := r.checks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCheck, name)
	}
	return reg.Check, nil
}

// Registrations returns every registered check sorted by name.
func (r *Registry) Registrations() []Registration {
	regs := make([]Registration, 0, len(r.checks))
	for _, reg := range r.checks {
		regs = append(regs, reg)
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].Name < regs[j].Name })
	return regs
}
