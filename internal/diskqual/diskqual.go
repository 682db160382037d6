// Package diskqual benchmarks raw disk read throughput with dd.
package diskqual

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ddPath is the GNU dd shipped with the appliance; its summary line format
// is what parseThroughput expects.
const ddPath = "/usr/gnu/bin/dd"

// ReadSeq runs a sequential read against the raw device for roughly duration
// and returns the measured throughput in MB/s. bs is the block size in KB.
func ReadSeq(ctx context.Context, disk string, bs int, duration time.Duration) (float64, error) {
	slog.Debug("sequential read test", "disk", disk)
	ifile := fmt.Sprintf("/dev/rdsk/%ss0", disk)
	return dd(ctx, ifile, "/dev/null", bs, duration)
}

// dd starts a dd copy, lets it run for duration, interrupts it, and parses
// the throughput from its summary output.
func dd(ctx context.Context, ifile, ofile string, bs int, duration time.Duration) (float64, error) {
	if _, err := os.Stat(ddPath); err != nil {
		return 0, fmt.Errorf("%q does not exist", ddPath)
	}

	args := []string{
		"if=" + ifile,
		"of=" + ofile,
		fmt.Sprintf("bs=%dK", bs),
	}
	slog.Debug("starting dd", "args", args)

	var buf bytes.Buffer
	cmd := exec.CommandContext(ctx, ddPath, args...)
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	if err := cmd.Start(); err != nil {
		return 0, err
	}

	select {
	case <-ctx.Done():
	case <-time.After(duration):
	}

	// SIGINT makes dd print its record/byte summary before exiting.
	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		slog.Debug("failed to interrupt dd", "error", err)
	}
	err := cmd.Wait()
	output := buf.String()
	slog.Debug("dd output", "output", output)

	// dd exits non-zero when interrupted; that is the expected path here.
	// Anything else is a real failure.
	if err != nil && !interrupted(err) {
		return 0, fmt.Errorf("dd on %s failed: %v: %s", ifile, err, strings.TrimSpace(output))
	}

	return parseThroughput(output)
}

func interrupted(err error) bool {
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return false
	}
	// A negative exit code means the process died to a signal.
	return exitErr.ExitCode() == -1 || exitErr.ExitCode() == 130
}

// parseThroughput extracts MB/s from dd's three-line summary:
//
//	1024+0 records in
//	1024+0 records out
//	33554432 bytes (34 MB, 32 MiB) copied, 2.1 s, 16 MB/s
func parseThroughput(output string) (float64, error) {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) < 3 {
		return 0, fmt.Errorf("unexpected dd output: %q", output)
	}
	summary := strings.Fields(lines[len(lines)-1])
	if len(summary) < 8 {
		return 0, fmt.Errorf("unexpected dd summary: %q", lines[len(lines)-1])
	}

	size, err := strconv.ParseFloat(summary[0], 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected dd summary: %q", lines[len(lines)-1])
	}
	seconds, err := strconv.ParseFloat(summary[7], 64)
	if err != nil || seconds == 0 {
		return 0, fmt.Errorf("unexpected dd summary: %q", lines[len(lines)-1])
	}

	return size / seconds / (1 << 20), nil
}
