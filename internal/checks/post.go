package checks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phart/autosac5/internal/nef"
	"github.com/phart/autosac5/internal/registry"
)

// PostResult is the payload of an API POST check.
type PostResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// PostCheck issues a POST against the NEF API and, for async responses,
// waits for the job to complete.
type PostCheck struct {
	Client *nef.Client
}

// Run implements registry.Check.
func (c *PostCheck) Run(ctx context.Context, inv registry.Invocation) (any, error) {
	var params struct {
		Method  string         `mapstructure:"method"`
		Payload map[string]any `mapstructure:"payload"`
	}
	if err := decodeKwargs(inv, &params); err != nil {
		return nil, err
	}
	method, err := stringArg(inv, 0, params.Method)
	if err != nil {
		return nil, fmt.Errorf("check_post: %w", err)
	}

	result := PostResult{Success: true}

	var payload any
	if params.Payload != nil {
		payload = params.Payload
	}
	jobID, err := c.Client.Post(ctx, method, payload)
	if err != nil {
		slog.Error("POST request failed", "method", method, "error", err)
		result.Success = false
		result.Error = err.Error()
		return result, nil
	}

	if jobID != "" {
		slog.Info("waiting for job to complete", "jobId", jobID)
		if err := c.Client.WaitJob(ctx, jobID); err != nil {
			slog.Error("job failed to complete", "jobId", jobID, "error", err)
			result.Success = false
			result.Error = err.Error()
		}
	}
	return result, nil
}
