package main

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/tokencost/internal/config"
	"github.com/janekbaraniewski/tokencost/internal/core"
	"github.com/janekbaraniewski/tokencost/internal/detect"
	"github.com/janekbaraniewski/tokencost/internal/providers"
)

func newSourcesCommand(cfg config.Config) *cobra.Command {
	var flags scanFlags
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Show installed CLIs and where their session logs are read from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids, err := resolveSources(cfg, flags.source)
			if err != nil {
				return err
			}
			sources := lo.FilterMap(ids, func(id core.Source, _ int) (core.LogSource, bool) {
				return providers.SourceByID(id)
			})

			out := cmd.OutOrStdout()
			for i, tool := range detect.Detect(sources, flags.options(cfg)) {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%s (%s)\n", tool.Name, tool.Source)
				fmt.Fprintf(out, "  binary:   %s\n", lo.Ternary(tool.BinaryPath == "", "not on PATH", tool.BinaryPath))
				fmt.Fprintf(out, "  override: $%s\n", tool.EnvVar)
				if tool.DocURL != "" {
					fmt.Fprintf(out, "  docs:     %s\n", tool.DocURL)
				}
				for _, root := range tool.Roots {
					status := "missing"
					if root.Exists {
						status = fmt.Sprintf("%d log files", root.Files)
					}
					fmt.Fprintf(out, "  root:     %s (%s)\n", root.Path, status)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&flags.source, "source", "s", "", "limit to sources (codex, claude_code)")
	cmd.Flags().StringVar(&flags.codexRoot, "codex-root", "", "Codex sessions directory")
	cmd.Flags().StringSliceVar(&flags.claudeRoot, "claude-root", nil, "Claude Code projects directory (repeatable)")
	return cmd
}
