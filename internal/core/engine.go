package core

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one source refresh. Snapshot is nil when the
// source reported no data.
type Result struct {
	Source   Source
	Snapshot *CostSnapshot
	Err      error
}

// Engine periodically rescans the configured sources and publishes results.
// Scans for different sources run concurrently and share no state.
type Engine struct {
	mu       sync.RWMutex
	scanner  SnapshotScanner
	sources  []Source
	opts     ScanOptions
	results  map[Source]Result
	interval time.Duration
	timeout  time.Duration

	onUpdate func(map[Source]Result)
}

func NewEngine(scanner SnapshotScanner, interval time.Duration) *Engine {
	return &Engine{
		scanner:  scanner,
		results:  make(map[Source]Result),
		interval: interval,
		timeout:  2 * time.Minute,
	}
}

func (e *Engine) SetSources(sources []Source) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sources = append([]Source(nil), sources...)
}

// SetOptions replaces the scan options used for subsequent refreshes.
// A zero Now means every refresh uses the wall clock.
func (e *Engine) SetOptions(opts ScanOptions) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts = opts
}

// SetTimeout bounds each individual scan. The scan itself is not interrupted;
// its late result is discarded.
func (e *Engine) SetTimeout(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if d > 0 {
		e.timeout = d
	}
}

func (e *Engine) OnUpdate(fn func(map[Source]Result)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onUpdate = fn
}

func (e *Engine) Results() map[Source]Result {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[Source]Result, len(e.results))
	for k, v := range e.results {
		out[k] = v
	}
	return out
}

func (e *Engine) RefreshAll(ctx context.Context) {
	e.mu.RLock()
	sources := append([]Source(nil), e.sources...)
	opts := e.opts
	timeout := e.timeout
	e.mu.RUnlock()

	results := make([]Result, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			scanCtx, cancel := context.WithTimeout(gctx, timeout)
			defer cancel()

			res := Result{Source: src}
			snap, err := e.scanner.ScanAsync(scanCtx, src, opts)
			switch {
			case errors.Is(err, ErrNoData):
			case err != nil:
				log.Printf("engine level=warn event=scan_failed source=%s err=%v", src, err)
				res.Err = err
			default:
				res.Snapshot = &snap
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	e.mu.Lock()
	for _, r := range results {
		e.results[r.Source] = r
	}
	fn := e.onUpdate
	snaps := make(map[Source]Result, len(e.results))
	for k, v := range e.results {
		snaps[k] = v
	}
	e.mu.Unlock()

	if fn != nil {
		fn(snaps)
	}
}

// Run refreshes immediately, then on every tick and on every trigger until
// ctx is cancelled. trigger may be nil.
func (e *Engine) Run(ctx context.Context, trigger <-chan struct{}) {
	e.RefreshAll(ctx)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("engine: context cancelled, stopping refresh loop")
			return
		case <-ticker.C:
			e.RefreshAll(ctx)
		case <-trigger:
			e.RefreshAll(ctx)
		}
	}
}
