package pricing

import (
	"errors"

	"github.com/janekbaraniewski/tokencost/internal/core"
)

var ErrUnknownModel = errors.New("pricing: model has no pricing entry")

// Calculator prices events against one table per source.
type Calculator struct {
	tables map[core.Source]*Table
}

func NewCalculator(tables map[core.Source]*Table) *Calculator {
	cp := make(map[core.Source]*Table, len(tables))
	for src, t := range tables {
		cp[src] = t
	}
	return &Calculator{tables: cp}
}

// DefaultCalculator uses the built-in tables for every supported source.
func DefaultCalculator() *Calculator {
	return NewCalculator(DefaultTables())
}

func DefaultTables() map[core.Source]*Table {
	return map[core.Source]*Table{
		core.SourceCodex:      OpenAITable(),
		core.SourceClaudeCode: AnthropicTable(),
	}
}

// Table returns the table configured for src, or nil.
func (c *Calculator) Table(src core.Source) *Table {
	return c.tables[src]
}

// Normalize returns the lookup id for a raw model logged by src.
func (c *Calculator) Normalize(src core.Source, raw string) string {
	return c.tables[src].Normalize(raw)
}

// Cost returns the USD cost of u for the given raw model id, along with the
// normalized id. It returns ErrUnknownModel when no entry exists.
func (c *Calculator) Cost(src core.Source, rawModel string, u Usage) (float64, string, error) {
	table := c.tables[src]
	model := table.Normalize(rawModel)
	entry, ok := table.Lookup(model)
	if !ok {
		return 0, model, ErrUnknownModel
	}
	return entry.Cost(u), model, nil
}

// Cost sums the per-category costs of u.
func (e Entry) Cost(u Usage) float64 {
	cost := e.categoryCost(u.Input, e.Base.Input, func(r Rates) float64 { return r.Input })
	cost += e.categoryCost(u.Output, e.Base.Output, func(r Rates) float64 { return r.Output })
	cost += e.categoryCost(u.CacheRead, e.Base.CacheRead, func(r Rates) float64 { return r.CacheRead })
	cost += e.categoryCost(u.CacheWrite, e.Base.CacheWrite, func(r Rates) float64 { return r.CacheWrite })
	return cost
}

func (e Entry) categoryCost(count int64, base float64, above func(Rates) float64) float64 {
	if count <= 0 {
		return 0
	}
	if e.Tier == nil || e.Tier.Threshold <= 0 {
		return float64(count) * base
	}
	below := min(count, e.Tier.Threshold)
	over := max(0, count-e.Tier.Threshold)
	return float64(below)*base + float64(over)*above(e.Tier.Rates)
}
