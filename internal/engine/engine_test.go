package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/phart/autosac5/internal/config"
	"github.com/phart/autosac5/internal/registry"
	"github.com/phart/autosac5/internal/report"
)

func spec(name, f string) config.CheckSpec {
	return config.CheckSpec{Enabled: true, Name: name, F: f, Args: []any{}, Kwargs: map[string]any{}}
}

func TestRunDisabledSpecSkips(t *testing.T) {
	calls := 0
	reg := registry.New()
	reg.Register("check_net", "", registry.Func(func(ctx context.Context, inv registry.Invocation) (any, error) {
		calls++
		return nil, nil
	}))

	s := spec("net", "check_net")
	s.Enabled = false

	rep := New(reg, "5.0").Run(context.Background(), []config.CheckSpec{s})

	out, ok := rep.Outcome("net")
	require.True(t, ok)
	require.Equal(t, report.StatusSkipped, out.Status)
	require.Zero(t, calls, "disabled check must never be invoked")
}

func TestRunUnknownCheckFails(t *testing.T) {
	rep := New(registry.New(), "5.0").Run(context.Background(), []config.CheckSpec{spec("ghost", "no_such_check")})

	out, ok := rep.Outcome("ghost")
	require.True(t, ok)
	require.Equal(t, report.StatusFailed, out.Status)
	require.Contains(t, out.Error, "no_such_check")
}

func TestRunCheckErrorFails(t *testing.T) {
	reg := registry.New()
	reg.Register("check_boom", "", registry.Func(func(ctx context.Context, inv registry.Invocation) (any, error) {
		return nil, errors.New("disk exploded")
	}))

	rep := New(reg, "5.0").Run(context.Background(), []config.CheckSpec{spec("boom", "check_boom")})

	out, _ := rep.Outcome("boom")
	require.Equal(t, report.StatusFailed, out.Status)
	require.Contains(t, out.Error, "disk exploded")
}

func TestRunCheckPanicFails(t *testing.T) {
	reg := registry.New()
	reg.Register("check_panic", "", registry.Func(func(ctx context.Context, inv registry.Invocation) (any, error) {
		panic("nil map write")
	}))

	rep := New(reg, "5.0").Run(context.Background(), []config.CheckSpec{spec("panic", "check_panic")})

	out, _ := rep.Outcome("panic")
	require.Equal(t, report.StatusFailed, out.Status)
	require.Contains(t, out.Error, "panicked")
	require.Contains(t, out.Error, "nil map write")
}

func TestRunSuccessPassesPayloadThrough(t *testing.T) {
	payload := map[string]any{"success": true, "tput": 250.0}
	reg := registry.New()
	reg.Register("check_disk", "", registry.Func(func(ctx context.Context, inv registry.Invocation) (any, error) {
		return payload, nil
	}))

	rep := New(reg, "5.0").Run(context.Background(), []config.CheckSpec{spec("disk", "check_disk")})

	out, _ := rep.Outcome("disk")
	require.Equal(t, report.StatusCompleted, out.Status)
	require.Equal(t, payload, rep.Results["disk"].Result)
}

func TestRunPassesArguments(t *testing.T) {
	reg := registry.New()
	reg.Register("check_args", "", registry.Func(func(ctx context.Context, inv registry.Invocation) (any, error) {
		require.Equal(t, []any{"a", float64(2)}, inv.Args)
		require.Equal(t, map[string]any{"bs": float64(32)}, inv.Kwargs)
		return nil, nil
	}))

	s := spec("args", "check_args")
	s.Args = []any{"a", float64(2)}
	s.Kwargs = map[string]any{"bs": float64(32)}

	rep := New(reg, "5.0").Run(context.Background(), []config.CheckSpec{s})
	out, _ := rep.Outcome("args")
	require.Equal(t, report.StatusCompleted, out.Status)
}

func TestRunTimeoutFails(t *testing.T) {
	reg := registry.New()
	reg.Register("check_hang", "", registry.Func(func(ctx context.Context, inv registry.Invocation) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}))

	s := spec("hang", "check_hang")
	s.Timeout = 10 * time.Millisecond

	rep := New(reg, "5.0").Run(context.Background(), []config.CheckSpec{s})

	out, _ := rep.Outcome("hang")
	require.Equal(t, report.StatusFailed, out.Status)
	require.Contains(t, out.Error, "deadline")
}

func TestRunContinuesAfterFailure(t *testing.T) {
	reg := registry.New()
	reg.Register("check_ok", "", registry.Func(func(ctx context.Context, inv registry.Invocation) (any, error) {
		return map[string]any{"success": true}, nil
	}))

	specs := []config.CheckSpec{
		spec("first", "no_such_check"),
		spec("second", "check_ok"),
	}

	rep := New(reg, "5.0").Run(context.Background(), specs)

	first, _ := rep.Outcome("first")
	second, _ := rep.Outcome("second")
	require.Equal(t, report.StatusFailed, first.Status)
	require.Equal(t, report.StatusCompleted, second.Status)
	require.Equal(t, "5.0", rep.Version)
}
