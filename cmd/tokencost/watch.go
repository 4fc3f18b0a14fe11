package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/tokencost/internal/cache"
	"github.com/janekbaraniewski/tokencost/internal/config"
	"github.com/janekbaraniewski/tokencost/internal/core"
	"github.com/janekbaraniewski/tokencost/internal/history"
	"github.com/janekbaraniewski/tokencost/internal/tui"
	"github.com/janekbaraniewski/tokencost/internal/watch"
)

func newWatchCommand(cfg config.Config) *cobra.Command {
	var (
		flags     scanFlags
		plain     bool
		noHistory bool
		timeout   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live view that rescans whenever the logs change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, cfg, flags, plain, noHistory, timeout)
		},
	}
	cmd.Flags().StringVarP(&flags.source, "source", "s", "", "comma-separated sources to watch (codex, claude_code)")
	cmd.Flags().StringVar(&flags.codexRoot, "codex-root", "", "Codex sessions directory (overrides CODEX_HOME)")
	cmd.Flags().StringSliceVar(&flags.claudeRoot, "claude-root", nil, "Claude Code projects directory (repeatable)")
	cmd.Flags().BoolVar(&plain, "plain", false, "print a summary on every refresh instead of the interactive view")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record refreshes in the history database")
	cmd.Flags().DurationVar(&timeout, "scan-timeout", scanTimeout, "give up on a single source scan after this long")
	return cmd
}

func runWatch(cmd *cobra.Command, cfg config.Config, flags scanFlags, plain, noHistory bool, timeout time.Duration) error {
	sources, err := resolveSources(cfg, flags.source)
	if err != nil {
		return err
	}
	scanner, err := newScanner(cfg)
	if err != nil {
		return err
	}
	cached, err := cache.New(scanner, cfg.CacheTTL())
	if err != nil {
		return err
	}
	defer cached.Close()

	var store *history.Store
	if !noHistory {
		store, err = openHistory(cfg)
		if err != nil {
			log.Printf("[history] disabled: %v", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	opts := flags.options(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := core.NewEngine(cached, cfg.RefreshInterval())
	engine.SetSources(sources)
	engine.SetOptions(opts)
	engine.SetTimeout(timeout)

	trigger := make(chan struct{}, 1)
	requestRefresh := func() {
		cached.Invalidate()
		select {
		case trigger <- struct{}{}:
		default:
		}
	}

	watcher := watch.New(sourceRoots(sources, opts), watch.DefaultDebounce)
	if err := watcher.Start(ctx); err != nil {
		log.Printf("[watch] falling back to interval refresh: %v", err)
	} else {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-watcher.Trigger():
					requestRefresh()
				}
			}
		}()
	}

	record := func(results map[core.Source]core.Result) {
		if store == nil {
			return
		}
		for _, r := range results {
			if r.Snapshot == nil {
				continue
			}
			if err := store.Record(ctx, *r.Snapshot); err != nil {
				log.Printf("[history] record %s: %v", r.Source, err)
			}
		}
	}

	if plain {
		return runPlainWatch(ctx, cancel, cmd.OutOrStdout(), engine, sources, trigger, record)
	}

	model := tui.NewModel(sources)
	model.SetOnRefresh(requestRefresh)
	program := tea.NewProgram(model, tea.WithAltScreen())

	engine.OnUpdate(func(results map[core.Source]core.Result) {
		record(results)
		program.Send(tui.SnapshotsMsg(results))
	})
	go engine.Run(ctx, trigger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
			program.Quit()
		case <-ctx.Done():
		}
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func runPlainWatch(
	ctx context.Context,
	cancel context.CancelFunc,
	out io.Writer,
	engine *core.Engine,
	sources []core.Source,
	trigger <-chan struct{},
	record func(map[core.Source]core.Result),
) error {
	engine.OnUpdate(func(results map[core.Source]core.Result) {
		record(results)
		rows := make([]tui.SummaryRow, 0, len(sources))
		for _, src := range sources {
			r := results[src]
			rows = append(rows, tui.SummaryRow{Source: src, Snapshot: r.Snapshot, Err: r.Err})
		}
		fmt.Fprintf(out, "── %s\n%s\n", time.Now().Format(time.TimeOnly), tui.RenderSummary(rows))
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	engine.Run(ctx, trigger)
	return nil
}
