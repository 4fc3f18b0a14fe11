package pricing

import (
	"maps"
	"slices"
)

// Rates are USD per token for each billed category.
type Rates struct {
	Input      float64
	Output     float64
	CacheRead  float64
	CacheWrite float64
}

// Tier applies Rates to the part of each category's count above Threshold.
type Tier struct {
	Threshold int64
	Rates     Rates
}

type Entry struct {
	Base Rates
	Tier *Tier
}

// Usage is the per-category token count of a single event.
type Usage struct {
	Input      int64
	Output     int64
	CacheRead  int64
	CacheWrite int64
}

// Table maps normalized model ids to pricing. A Table is never mutated after
// construction; With returns a modified copy.
type Table struct {
	entries   map[string]Entry
	normalize func(t *Table, raw string) string
}

func NewTable(entries map[string]Entry, normalize func(t *Table, raw string) string) *Table {
	return &Table{entries: maps.Clone(entries), normalize: normalize}
}

// Lookup is an exact match on an already-normalized id.
func (t *Table) Lookup(model string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	e, ok := t.entries[model]
	return e, ok
}

func (t *Table) Has(model string) bool {
	_, ok := t.Lookup(model)
	return ok
}

// Normalize maps a raw logged model id onto the id used for lookup.
func (t *Table) Normalize(raw string) string {
	if t == nil || t.normalize == nil {
		return raw
	}
	return t.normalize(t, raw)
}

// Models returns all priced ids, sorted.
func (t *Table) Models() []string {
	if t == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(t.entries))
}

// With returns a copy of t with overrides applied on top.
func (t *Table) With(overrides map[string]Entry) *Table {
	merged := maps.Clone(t.entries)
	if merged == nil {
		merged = make(map[string]Entry, len(overrides))
	}
	maps.Copy(merged, overrides)
	return &Table{entries: merged, normalize: t.normalize}
}

func perMillion(v float64) float64 { return v / 1_000_000 }

// rates builds Rates from USD-per-million figures.
func rates(input, output, cacheRead, cacheWrite float64) Rates {
	return Rates{
		Input:      perMillion(input),
		Output:     perMillion(output),
		CacheRead:  perMillion(cacheRead),
		CacheWrite: perMillion(cacheWrite),
	}
}
