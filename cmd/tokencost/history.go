package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/tokencost/internal/config"
	"github.com/janekbaraniewski/tokencost/internal/core"
	"github.com/janekbaraniewski/tokencost/internal/tui"
)

func newHistoryCommand(cfg config.Config) *cobra.Command {
	var (
		source string
		days   int
		since  string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show daily usage recorded by previous scans",
		Long:  "Show daily usage recorded by 'watch' and 'scan --record'. Unlike scan, history is not limited to the last 30 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var src core.Source
			if source != "" {
				sources, err := resolveSources(cfg, source)
				if err != nil {
					return err
				}
				if len(sources) != 1 {
					return fmt.Errorf("history accepts a single --source")
				}
				src = sources[0]
			}

			store, err := openHistory(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			from := core.WindowForDays(time.Now(), days).Start
			if since != "" {
				if _, ok := core.ParseDayKey(since); !ok {
					return fmt.Errorf("invalid --since %q (want YYYY-MM-DD)", since)
				}
				from = since
			}
			rows, err := store.Rows(cmd.Context(), src, from)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(rows))
			return nil
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "", "limit to one source (codex, claude_code)")
	cmd.Flags().IntVar(&days, "days", 90, "number of days to show, ending today")
	cmd.Flags().StringVar(&since, "since", "", "first day to show (YYYY-MM-DD); overrides --days")

	cmd.AddCommand(newHistoryPruneCommand(cfg))
	return cmd
}

func newHistoryPruneCommand(cfg config.Config) *cobra.Command {
	var keep int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete recorded days older than --keep days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openHistory(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			cutoff := core.WindowForDays(time.Now(), keep).Start
			n, err := store.Prune(cmd.Context(), cutoff)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d rows before %s\n", n, cutoff)
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 365, "number of days to keep, ending today")
	return cmd
}
