package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/tokencost/internal/config"
	"github.com/janekbaraniewski/tokencost/internal/version"
)

func main() {
	cfg, env, err := config.Load()
	if env.Debug {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintf(os.Stderr, "Config path: %s\n", config.ConfigPath())
		os.Exit(1)
	}

	root := newRootCommand(cfg)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(cfg config.Config) *cobra.Command {
	var flags scanFlags

	root := &cobra.Command{
		Use:   "tokencost",
		Short: "tokencost reports token usage and estimated spend from local Codex and Claude Code logs.",
		Long: "tokencost scans the session logs the Codex CLI and Claude Code write to disk and\n" +
			"prices them locally. Nothing is sent over the network.",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(cmd, cfg, flags)
		},
	}
	flags.register(root)

	root.AddCommand(newScanCommand(cfg))
	root.AddCommand(newWatchCommand(cfg))
	root.AddCommand(newHistoryCommand(cfg))
	root.AddCommand(newPricingCommand(cfg))
	root.AddCommand(newSourcesCommand(cfg))
	root.AddCommand(newConfigCommand(cfg))
	root.AddCommand(newVersionCommand())
	return root
}
