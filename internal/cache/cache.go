// Package cache keeps recent cost snapshots in memory so repeated callers
// within a short interval share one filesystem walk.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/janekbaraniewski/tokencost/internal/core"
)

const DefaultTTL = 60 * time.Second

// maxEntries bounds distinct (source, options) keys; each entry costs 1.
const maxEntries = 100

type entry struct {
	snap   core.CostSnapshot
	noData bool
}

// Scanner is a core.SnapshotScanner that serves results from a TTL cache
// before delegating to the wrapped scanner. Errors other than
// core.ErrNoData are never cached.
type Scanner struct {
	next core.SnapshotScanner
	ttl  time.Duration
	c    *ristretto.Cache[string, entry]
}

var _ core.SnapshotScanner = (*Scanner)(nil)

func New(next core.SnapshotScanner, ttl time.Duration) (*Scanner, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, entry]{
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("cache: creating snapshot cache: %w", err)
	}
	return &Scanner{next: next, ttl: ttl, c: c}, nil
}

func (s *Scanner) ScanAsync(ctx context.Context, src core.Source, opts core.ScanOptions) (core.CostSnapshot, error) {
	key := cacheKey(src, opts)
	if e, ok := s.c.Get(key); ok {
		if e.noData {
			return core.CostSnapshot{}, core.ErrNoData
		}
		return e.snap, nil
	}

	snap, err := s.next.ScanAsync(ctx, src, opts)
	switch {
	case errors.Is(err, core.ErrNoData):
		s.c.SetWithTTL(key, entry{noData: true}, 1, s.ttl)
	case err != nil:
		return snap, err
	default:
		s.c.SetWithTTL(key, entry{snap: snap}, 1, s.ttl)
	}
	return snap, err
}

// Invalidate drops every cached snapshot.
func (s *Scanner) Invalidate() {
	s.c.Clear()
}

// Wait blocks until pending writes are visible to Get.
func (s *Scanner) Wait() {
	s.c.Wait()
}

func (s *Scanner) Close() {
	s.c.Close()
}

// cacheKey distinguishes explicit roots and pinned clocks so test and
// override scans never share entries with default ones.
func cacheKey(src core.Source, opts core.ScanOptions) string {
	var b strings.Builder
	b.WriteString(string(src))
	b.WriteByte('|')
	b.WriteString(opts.CodexSessionsRoot)
	b.WriteByte('|')
	b.WriteString(strings.Join(opts.ClaudeProjectsRoots, ","))
	b.WriteByte('|')
	if !opts.Now.IsZero() {
		b.WriteString(opts.Now.UTC().Format(time.RFC3339Nano))
	}
	return b.String()
}
