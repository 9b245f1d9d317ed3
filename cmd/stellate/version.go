package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kroma-labs/stellate-go/stellate"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Args:  cobra.NoArgs,
		// Skip config loading.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), stellate.UserAgent)
			return err
		},
	}
}
