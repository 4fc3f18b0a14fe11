package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/tokencost/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tokencost %s\n", version.String())
		},
	}
}
