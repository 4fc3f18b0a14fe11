package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janekbaraniewski/tokencost/internal/core"
)

type countingScanner struct {
	calls atomic.Int32
	snap  core.CostSnapshot
	err   error
}

func (c *countingScanner) ScanAsync(_ context.Context, src core.Source, _ core.ScanOptions) (core.CostSnapshot, error) {
	c.calls.Add(1)
	snap := c.snap
	snap.Source = src
	return snap, c.err
}

func TestScannerCachesSnapshots(t *testing.T) {
	next := &countingScanner{snap: core.CostSnapshot{MonthTokens: 42}}
	s, err := New(next, time.Minute)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	snap, err := s.ScanAsync(ctx, core.SourceCodex, core.ScanOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(42), snap.MonthTokens)
	s.Wait()

	snap, err = s.ScanAsync(ctx, core.SourceCodex, core.ScanOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(42), snap.MonthTokens)
	assert.Equal(t, int32(1), next.calls.Load())

	_, err = s.ScanAsync(ctx, core.SourceClaudeCode, core.ScanOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), next.calls.Load(), "sources are cached separately")
	s.Wait()

	for _, src := range []core.Source{core.SourceCodex, core.SourceClaudeCode} {
		snap, err = s.ScanAsync(ctx, src, core.ScanOptions{})
		require.NoError(t, err)
		assert.Equal(t, src, snap.Source)
	}
	assert.Equal(t, int32(2), next.calls.Load(), "both sources stay cached together")

	s.Invalidate()
	_, err = s.ScanAsync(ctx, core.SourceCodex, core.ScanOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(3), next.calls.Load())
}

func TestScannerCachesNoData(t *testing.T) {
	next := &countingScanner{err: core.ErrNoData}
	s, err := New(next, time.Minute)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.ScanAsync(context.Background(), core.SourceCodex, core.ScanOptions{})
	assert.ErrorIs(t, err, core.ErrNoData)
	s.Wait()

	_, err = s.ScanAsync(context.Background(), core.SourceCodex, core.ScanOptions{})
	assert.ErrorIs(t, err, core.ErrNoData)
	assert.Equal(t, int32(1), next.calls.Load())
}

func TestScannerDoesNotCacheFailures(t *testing.T) {
	next := &countingScanner{err: errors.New("boom")}
	s, err := New(next, time.Minute)
	require.NoError(t, err)
	defer s.Close()

	for range 2 {
		_, err = s.ScanAsync(context.Background(), core.SourceCodex, core.ScanOptions{})
		require.Error(t, err)
		s.Wait()
	}
	assert.Equal(t, int32(2), next.calls.Load())
}

func TestCacheKeyIncludesOverrides(t *testing.T) {
	now := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	a := cacheKey(core.SourceClaudeCode, core.ScanOptions{})
	b := cacheKey(core.SourceClaudeCode, core.ScanOptions{ClaudeProjectsRoots: []string{"/x"}})
	c := cacheKey(core.SourceClaudeCode, core.ScanOptions{Now: now})
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}
