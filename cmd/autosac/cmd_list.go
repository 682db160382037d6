package main

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/phart/autosac5/internal/checks"
)

func newListCommand(opts *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the registered checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(opts)
			if err != nil {
				return err
			}
			regs := checks.NewRegistry(client).Registrations()

			width := 0
			for _, r := range regs {
				if n := runewidth.StringWidth(r.Name); n > width {
					width = n
				}
			}
			for _, r := range regs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", runewidth.FillRight(r.Name, width), r.Description)
			}
			return nil
		},
	}
}
