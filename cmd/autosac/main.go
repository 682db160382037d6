package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/phart/autosac5/internal/report"
)

// Exit codes for different failure modes
const (
	ExitSuccess     = 0 // Run completed and the report was written
	ExitWriteFailed = 1 // Checks ran but the report could not be persisted
	ExitError       = 2 // Configuration or usage error
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Failed checks never reach here; they are recorded in the report.
		// Losing the report after a full pass is its own failure mode.
		if errors.Is(err, report.ErrWrite) {
			os.Exit(ExitWriteFailed)
		}

		// All other errors are configuration/usage errors
		os.Exit(ExitError)
	}
}
