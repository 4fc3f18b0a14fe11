package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/janekbaraniewski/tokencost/internal/config"
	"github.com/janekbaraniewski/tokencost/internal/core"
	"github.com/janekbaraniewski/tokencost/internal/scan"
	"github.com/janekbaraniewski/tokencost/internal/tui"
)

const scanTimeout = 2 * time.Minute

type scanFlags struct {
	source     string
	jsonOut    bool
	daily      bool
	record     bool
	codexRoot  string
	claudeRoot []string
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.source, "source", "s", "", "comma-separated sources to scan (codex, claude_code)")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "print snapshots as JSON")
	cmd.Flags().BoolVarP(&f.daily, "daily", "d", false, "include the per-day breakdown")
	cmd.Flags().BoolVar(&f.record, "record", false, "store the daily breakdown in the history database")
	cmd.Flags().StringVar(&f.codexRoot, "codex-root", "", "Codex sessions directory (overrides CODEX_HOME)")
	cmd.Flags().StringSliceVar(&f.claudeRoot, "claude-root", nil, "Claude Code projects directory (repeatable; overrides CLAUDE_CONFIG_DIR)")
}

func (f scanFlags) options(cfg config.Config) core.ScanOptions {
	opts := cfg.ScanOptions()
	if f.codexRoot != "" {
		opts.CodexSessionsRoot = f.codexRoot
	}
	if len(f.claudeRoot) > 0 {
		opts.ClaudeProjectsRoots = f.claudeRoot
	}
	return opts
}

func newScanCommand(cfg config.Config) *cobra.Command {
	var flags scanFlags
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Print today's and the last 30 days' usage and cost",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(cmd, cfg, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

type scanEntry struct {
	Source   core.Source        `json:"source"`
	Snapshot *core.CostSnapshot `json:"snapshot,omitempty"`
	NoData   bool               `json:"no_data,omitempty"`
	Error    string             `json:"error,omitempty"`

	err error
}

func runScan(cmd *cobra.Command, cfg config.Config, flags scanFlags) error {
	sources, err := resolveSources(cfg, flags.source)
	if err != nil {
		return err
	}
	scanner, err := newScanner(cfg)
	if err != nil {
		return err
	}

	entries := scanAll(cmd.Context(), scanner, sources, flags.options(cfg))

	if flags.record {
		if err := recordEntries(cmd.Context(), cfg, entries); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if flags.jsonOut {
		if !flags.daily {
			for i := range entries {
				if entries[i].Snapshot != nil {
					entries[i].Snapshot.Daily = nil
				}
			}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("encoding snapshots: %w", err)
		}
	} else {
		rows := make([]tui.SummaryRow, len(entries))
		for i, e := range entries {
			rows[i] = tui.SummaryRow{Source: e.Source, Snapshot: e.Snapshot, Err: e.err}
		}
		fmt.Fprint(out, tui.RenderSummary(rows))
		if flags.daily {
			for _, e := range entries {
				if e.Snapshot == nil {
					continue
				}
				fmt.Fprintf(out, "\n%s\n", tui.SourceLabel(e.Source))
				fmt.Fprint(out, tui.RenderDaily(*e.Snapshot, 120))
			}
		}
	}

	var failed []error
	for _, e := range entries {
		if e.err != nil {
			failed = append(failed, fmt.Errorf("%s: %w", e.Source, e.err))
		}
	}
	return errors.Join(failed...)
}

// scanAll scans every source concurrently. Per-source failures are carried
// in the entries rather than aborting the others.
func scanAll(ctx context.Context, scanner *scan.Scanner, sources []core.Source, opts core.ScanOptions) []scanEntry {
	if ctx == nil {
		ctx = context.Background()
	}
	entries := make([]scanEntry, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			scanCtx, cancel := context.WithTimeout(gctx, scanTimeout)
			defer cancel()

			entry := scanEntry{Source: src}
			snap, err := scanner.ScanAsync(scanCtx, src, opts)
			switch {
			case scan.IsNoData(err):
				entry.NoData = true
			case err != nil:
				log.Printf("[scan] source=%s err=%v", src, err)
				entry.err = err
				entry.Error = err.Error()
			default:
				entry.Snapshot = &snap
			}
			entries[i] = entry
			return nil
		})
	}
	_ = g.Wait()
	return entries
}

func recordEntries(ctx context.Context, cfg config.Config, entries []scanEntry) error {
	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	for _, e := range entries {
		if e.Snapshot == nil {
			continue
		}
		if err := store.Record(ctx, *e.Snapshot); err != nil {
			return err
		}
	}
	return nil
}
