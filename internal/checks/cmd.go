package checks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phart/autosac5/internal/execute"
	"github.com/phart/autosac5/internal/registry"
)

// CmdResult is the payload of a command check.
type CmdResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// CmdCheck runs an arbitrary command and verifies it exits zero.
type CmdCheck struct{}

// Run implements registry.Check.
func (c *CmdCheck) Run(ctx context.Context, inv registry.Invocation) (any, error) {
	var params struct {
		Cmd        string  `mapstructure:"cmd"`
		TimeoutSec float64 `mapstructure:"timeout"`
	}
	if err := decodeKwargs(inv, &params); err != nil {
		return nil, err
	}
	command, err := stringArg(inv, 0, params.Cmd)
	if err != nil {
		return nil, fmt.Errorf("check_cmd: %w", err)
	}

	slog.Debug("check_cmd running", "cmd", command)

	result := CmdResult{Success: true}
	timeout := time.Duration(params.TimeoutSec * float64(time.Second))
	if _, err := execute.Run(ctx, command, timeout); err != nil {
		var exitErr *execute.ExitError
		var timeoutErr *execute.TimeoutError
		switch {
		case errors.As(err, &exitErr):
			slog.Error("command failed", "cmd", command, "code", exitErr.Code)
			slog.Debug("command output", "output", exitErr.Output)
			result.Success = false
			result.Error = exitErr.Output
		case errors.As(err, &timeoutErr):
			slog.Error(timeoutErr.Error())
			result.Success = false
			result.Error = timeoutErr.Error()
		default:
			return nil, err
		}
	}
	return result, nil
}
