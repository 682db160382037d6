package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phart/autosac5/internal/config"
)

func newValidateCommand(opts *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the check list config without running anything",
		Long: `Validate reads the config and checks each entry for the required fields
(enabled, name, f, args, kwargs). It does not resolve check identifiers or
inspect arguments; that happens at run time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d check(s), OK\n", opts.configPath, len(specs))
			return nil
		},
	}
}
