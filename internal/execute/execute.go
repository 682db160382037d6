// Package execute runs shell commands on the appliance with an optional
// timeout.
package execute

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// ExitError indicates a command exited with a non-zero status.
type ExitError struct {
	Cmd    string
	Code   int
	Output string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q returned non-zero exit status %d", e.Cmd, e.Code)
}

// TimeoutError indicates a command exceeded its timeout and was killed.
type TimeoutError struct {
	Cmd     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command %q timed out after %s", e.Cmd, e.Timeout)
}

// Run executes command in the default shell and returns stdout and stderr
// merged. A zero timeout means the command may run until ctx is done.
func Run(ctx context.Context, command string, timeout time.Duration) (string, error) {
	slog.Debug("executing command", "cmd", command)

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	//nolint:gosec // commands come from the operator's config, not untrusted input
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	out, err := cmd.CombinedOutput()
	output := string(out)

	if timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return output, &TimeoutError{Cmd: command, Timeout: timeout}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return output, &ExitError{Cmd: command, Code: exitErr.ExitCode(), Output: output}
		}
		return output, err
	}

	slog.Debug("command output", "cmd", command, "output", output)
	return output, nil
}
