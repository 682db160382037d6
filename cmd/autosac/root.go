package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

// Default locations; overridable with -c and -o.
const (
	defaultConfigPath = "/etc/autosac.json"
	defaultReportPath = "/var/tmp/autosac_results.json"
)

// runOptions carries the root command's flag values.
type runOptions struct {
	configPath string
	outputPath string
	junitPath  string
	compress   bool
	noPrompt   bool

	url      string
	username string
	password string
}

func newRootCommand() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "autosac",
		Short: "Autosac - automated system acceptance checks",
		Long: `Autosac runs the acceptance checks declared in a config file against the
local appliance, one at a time, and aggregates every outcome into a JSON
report. A broken check is recorded as a failed entry; it never aborts the run.

After the report is written the operator is asked whether to reboot the
appliance. Declining exits normally.`,
		Version:       version,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChecks(cmd, opts)
		},
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", defaultConfigPath, "Path to the check list config")
	cmd.PersistentFlags().StringVar(&opts.url, "url", "https://localhost:8443", "Base URL of the appliance NEF API")
	cmd.PersistentFlags().StringVar(&opts.username, "username", "", "NEF API username")
	cmd.PersistentFlags().StringVar(&opts.password, "password", "", "NEF API password")

	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", defaultReportPath, "Output JSON file for the report")
	cmd.Flags().StringVar(&opts.junitPath, "junit", "", "Also write a JUnit XML rendition of the report")
	cmd.Flags().BoolVar(&opts.compress, "compress", false, "Also write a gzipped copy of the report")
	cmd.Flags().BoolVar(&opts.noPrompt, "no-prompt", false, "Skip the reboot prompt after the run")

	// Add subcommands
	cmd.AddCommand(newValidateCommand(opts))
	cmd.AddCommand(newListCommand(opts))

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
