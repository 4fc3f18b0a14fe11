package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/tokencost/internal/config"
	"github.com/janekbaraniewski/tokencost/internal/tui"
)

func newPricingCommand(cfg config.Config) *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "pricing",
		Short: "List the effective pricing tables (USD per million tokens)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sources, err := resolveSources(cfg, source)
			if err != nil {
				return err
			}
			calc, err := newCalculator(cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, src := range sources {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, tui.SourceLabel(src))
				fmt.Fprint(out, tui.RenderPricing(calc.Table(src)))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "", "limit to sources (codex, claude_code)")
	cmd.AddCommand(newPricingLookupCommand(cfg))
	return cmd
}

func newPricingLookupCommand(cfg config.Config) *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "lookup <model>",
		Short: "Show how a logged model id is normalized and priced",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := resolveSources(cfg, source)
			if err != nil {
				return err
			}
			calc, err := newCalculator(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			raw := args[0]
			found := false
			for _, src := range sources {
				model := calc.Normalize(src, raw)
				entry, ok := calc.Table(src).Lookup(model)
				if !ok {
					fmt.Fprintf(out, "%-12s %s -> %s (no pricing entry)\n", src, raw, model)
					continue
				}
				found = true
				cells := tui.RateCells(entry)
				fmt.Fprintf(out, "%-12s %s -> %s  input %s  output %s  cache read %s  cache write %s",
					src, raw, model, cells[0], cells[1], cells[2], cells[3])
				if cells[4] != "" {
					fmt.Fprintf(out, "  tier %s", strings.TrimSpace(cells[4]))
				}
				fmt.Fprintln(out)
			}
			if !found {
				return fmt.Errorf("model %q has no pricing entry; tokens will be counted without cost", raw)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "", "limit to sources (codex, claude_code)")
	return cmd
}
