package checks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/phart/autosac5/internal/execute"
	"github.com/phart/autosac5/internal/registry"
)

// wantDefaultIBS is the required zfs_default_ibs value; see NEX-15280.
const wantDefaultIBS = 14

// MetadataBlocksResult is the payload of the metadata block size check.
type MetadataBlocksResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// MetadataBlocksCheck verifies the kernel's zfs_default_ibs tunable through
// mdb.
type MetadataBlocksCheck struct{}

// Run implements registry.Check.
func (c *MetadataBlocksCheck) Run(ctx context.Context, inv registry.Invocation) (any, error) {
	result := MetadataBlocksResult{Success: true}

	output, err := execute.Run(ctx, "echo 'zfs_default_ibs/D' | mdb -k", 10*time.Second)
	if err != nil {
		var exitErr *execute.ExitError
		var timeoutErr *execute.TimeoutError
		switch {
		case errors.As(err, &exitErr):
			slog.Error("could not execute mdb command")
			result.Success = false
			result.Error = exitErr.Output
		case errors.As(err, &timeoutErr):
			slog.Error(timeoutErr.Error())
			result.Success = false
			result.Error = timeoutErr.Error()
		default:
			return nil, err
		}
		return result, nil
	}

	entry, value, err := parseIBSEntry(output)
	if err != nil {
		return nil, err
	}
	if value != wantDefaultIBS {
		slog.Error("zfs_default_ibs is not 14", "entry", entry)
		result.Success = false
		result.Error = entry
	}
	return result, nil
}

// parseIBSEntry extracts the tunable's value from mdb output of the form:
//
//	zfs_default_ibs:
//	zfs_default_ibs:                14
func parseIBSEntry(output string) (entry string, value int, err error) {
	lines := strings.Split(output, "\n")
	if len(lines) < 2 {
		return "", 0, fmt.Errorf("unexpected mdb output: %q", output)
	}
	entry = lines[1]

	_, raw, found := strings.Cut(entry, ":")
	if !found {
		return "", 0, fmt.Errorf("unexpected mdb output: %q", entry)
	}
	value, err = strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return "", 0, fmt.Errorf("unexpected mdb output: %q", entry)
	}
	return entry, value, nil
}
