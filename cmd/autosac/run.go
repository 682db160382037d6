package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/phart/autosac5/internal/checks"
	"github.com/phart/autosac5/internal/config"
	"github.com/phart/autosac5/internal/engine"
	executepkg "github.com/phart/autosac5/internal/execute"
	"github.com/phart/autosac5/internal/nef"
	"github.com/phart/autosac5/internal/prompt"
	"github.com/phart/autosac5/internal/report"
)

// runChecks is the whole acceptance pass: load config, run every check,
// persist the report, then offer the reboot.
func runChecks(cmd *cobra.Command, opts *runOptions) error {
	ctx := cmd.Context()

	specs, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	slog.Info("config loaded", "path", opts.configPath, "checks", len(specs))

	client, err := newClient(opts)
	if err != nil {
		return err
	}

	runner := engine.New(checks.NewRegistry(client), version)
	rep := runner.Run(ctx, specs)

	// The report must be durable before anything else happens; a write
	// failure here is terminal and suppresses the reboot prompt.
	if err := report.Write(opts.outputPath, rep); err != nil {
		return err
	}
	slog.Info("report written", "path", opts.outputPath)

	if opts.compress {
		if err := report.WriteCompressed(opts.outputPath, rep); err != nil {
			return err
		}
	}
	if opts.junitPath != "" {
		if err := report.WriteJUnit(opts.junitPath, rep); err != nil {
			return err
		}
	}

	printSummary(cmd.OutOrStdout(), rep)

	if !opts.noPrompt {
		if prompt.Confirm(os.Stdin, cmd.OutOrStdout(), "Reboot the appliance now?") {
			slog.Info("rebooting appliance")
			if _, err := executepkg.Run(ctx, "reboot", 0); err != nil {
				return fmt.Errorf("reboot failed: %w", err)
			}
		} else {
			slog.Info("reboot declined")
		}
	}

	return nil
}

func newClient(opts *runOptions) (*nef.Client, error) {
	var clientOpts []nef.Option
	if opts.username != "" || opts.password != "" {
		clientOpts = append(clientOpts, nef.WithCredentials(opts.username, opts.password))
	}
	return nef.New(opts.url, clientOpts...)
}

// printSummary renders one aligned row per check: name, status, detail.
func printSummary(w io.Writer, rep *report.Report) {
	lines := rep.Lines()

	width := runewidth.StringWidth("NAME")
	for _, l := range lines {
		if n := runewidth.StringWidth(l.Name); n > width {
			width = n
		}
	}

	fmt.Fprintf(w, "\n%s  %-9s  %s\n", runewidth.FillRight("NAME", width), "STATUS", "DETAIL")
	for _, l := range lines {
		detail := l.Detail
		if detail == "" {
			detail = "-"
		}
		fmt.Fprintf(w, "%s  %-9s  %s\n", runewidth.FillRight(l.Name, width), string(l.Status), detail)
	}
}
