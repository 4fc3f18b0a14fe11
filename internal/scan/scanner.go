package scan

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/janekbaraniewski/tokencost/internal/core"
	"github.com/janekbaraniewski/tokencost/internal/pricing"
	"github.com/janekbaraniewski/tokencost/internal/providers"
	"github.com/janekbaraniewski/tokencost/internal/providers/shared"
)

var ErrUnknownSource = errors.New("scan: unknown source")

var logExtensions = map[string]bool{".jsonl": true}

var _ core.SnapshotScanner = (*Scanner)(nil)

// Scanner computes cost snapshots from local CLI logs. It holds no mutable
// state; concurrent scans are independent.
type Scanner struct {
	calc    *pricing.Calculator
	sources map[core.Source]core.LogSource
}

// New returns a Scanner over every registered source. A nil calc uses the
// built-in pricing tables.
func New(calc *pricing.Calculator) *Scanner {
	return NewWithSources(calc, providers.AllSources()...)
}

func NewWithSources(calc *pricing.Calculator, sources ...core.LogSource) *Scanner {
	if calc == nil {
		calc = pricing.DefaultCalculator()
	}
	s := &Scanner{calc: calc, sources: make(map[core.Source]core.LogSource, len(sources))}
	for _, src := range sources {
		s.sources[src.ID()] = src
	}
	return s
}

func (s *Scanner) Calculator() *pricing.Calculator { return s.calc }

// Scan walks every root of src and folds its events into a snapshot. It
// blocks for the whole filesystem walk. Missing roots, unreadable files and
// malformed lines are absorbed; core.ErrNoData is returned when nothing
// lands in the rolling window.
func (s *Scanner) Scan(src core.Source, opts core.ScanOptions) (core.CostSnapshot, error) {
	source, ok := s.sources[src]
	if !ok {
		return core.CostSnapshot{}, fmt.Errorf("%w: %q", ErrUnknownSource, src)
	}

	now := opts.ResolvedNow()
	window := core.RollingWindow(now)
	buckets := newDayBuckets(source, s.calc)

	files := shared.CollectFilesByExt(source.Roots(opts), logExtensions)
	for _, path := range files {
		s.scanFile(source, path, window, buckets)
	}

	log.Printf("[%s] scanned files=%d events=%d unpriced=%d days=%d window=%s..%s",
		src, len(files), buckets.events, buckets.unpriced, len(buckets.days), window.Start, window.End)

	return buckets.snapshot(window, now)
}

func (s *Scanner) scanFile(source core.LogSource, path string, window core.DayWindow, buckets *dayBuckets) {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("[%s] skipping %s: %v", source.ID(), path, err)
		return
	}
	defer f.Close()

	// Events emitted before a read error are kept.
	if err := source.ParseFile(f, window, buckets.add); err != nil {
		log.Printf("[%s] partial read of %s: %v", source.ID(), path, err)
	}
}

type scanResult struct {
	snap core.CostSnapshot
	err  error
}

// ScanAsync runs Scan on its own goroutine and waits for it. When ctx ends
// first, ctx.Err() is returned and the scan's eventual result is dropped;
// the walk itself runs to completion.
func (s *Scanner) ScanAsync(ctx context.Context, src core.Source, opts core.ScanOptions) (core.CostSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return core.CostSnapshot{}, err
	}

	done := make(chan scanResult, 1)
	go func() {
		snap, err := s.Scan(src, opts)
		done <- scanResult{snap: snap, err: err}
	}()

	select {
	case <-ctx.Done():
		return core.CostSnapshot{}, ctx.Err()
	case res := <-done:
		return res.snap, res.err
	}
}
