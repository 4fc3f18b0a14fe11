package main

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/janekbaraniewski/tokencost/internal/config"
	"github.com/janekbaraniewski/tokencost/internal/core"
	"github.com/janekbaraniewski/tokencost/internal/history"
	"github.com/janekbaraniewski/tokencost/internal/pricing"
	"github.com/janekbaraniewski/tokencost/internal/providers"
	"github.com/janekbaraniewski/tokencost/internal/scan"
)

// newCalculator builds the pricing calculator with any configured overrides.
func newCalculator(cfg config.Config) (*pricing.Calculator, error) {
	overrides, err := pricing.LoadOverrides(cfg.PricingOverrides)
	if err != nil {
		return nil, err
	}
	return pricing.NewCalculator(overrides.Apply(pricing.DefaultTables())), nil
}

func newScanner(cfg config.Config) (*scan.Scanner, error) {
	calc, err := newCalculator(cfg)
	if err != nil {
		return nil, err
	}
	return scan.New(calc), nil
}

// resolveSources validates the --source flag, falling back to the configured
// set. Unknown configured ids are dropped; unknown flag ids are an error.
func resolveSources(cfg config.Config, flag string) ([]core.Source, error) {
	if flag = strings.TrimSpace(flag); flag != "" {
		var out []core.Source
		for _, part := range strings.Split(flag, ",") {
			id := core.Source(strings.ToLower(strings.TrimSpace(part)))
			if id == "" {
				continue
			}
			if _, ok := providers.SourceByID(id); !ok {
				return nil, fmt.Errorf("unknown source %q (known: %s)", id, knownSources())
			}
			out = append(out, id)
		}
		return lo.Uniq(out), nil
	}

	out := lo.Filter(cfg.Sources, func(id core.Source, _ int) bool {
		_, ok := providers.SourceByID(id)
		return ok
	})
	if len(out) == 0 {
		return providers.SourceIDs(), nil
	}
	return out, nil
}

func knownSources() string {
	return strings.Join(lo.Map(providers.SourceIDs(), func(id core.Source, _ int) string {
		return string(id)
	}), ", ")
}

// sourceRoots lists every log root of the given sources under opts.
func sourceRoots(sources []core.Source, opts core.ScanOptions) []string {
	return lo.Uniq(lo.FlatMap(sources, func(id core.Source, _ int) []string {
		src, ok := providers.SourceByID(id)
		if !ok {
			return nil
		}
		return src.Roots(opts)
	}))
}

func historyPath(cfg config.Config) (string, error) {
	if p := strings.TrimSpace(cfg.HistoryDB); p != "" {
		return p, nil
	}
	return history.DefaultDBPath()
}

func openHistory(cfg config.Config) (*history.Store, error) {
	path, err := historyPath(cfg)
	if err != nil {
		return nil, err
	}
	return history.OpenStore(path)
}
