package tui

import (
	"strings"

	"github.com/janekbaraniewski/tokencost/internal/history"
	"github.com/janekbaraniewski/tokencost/internal/pricing"
)

// RenderHistory renders stored daily rows, one line per source and day,
// followed by a per-source total.
func RenderHistory(rows []history.Row) string {
	cols := []column{
		{title: "DAY", width: 10},
		{title: "SOURCE", width: 12},
		{title: "TOKENS", width: 12, align: alignRight},
		{title: "COST", width: 10, align: alignRight},
		{title: "MODELS", width: 40},
	}

	var b strings.Builder
	b.WriteString(renderHeader(cols))
	b.WriteByte('\n')

	type total struct {
		tokens int64
		cost   float64
		priced bool
	}
	totals := map[string]*total{}
	var order []string

	for _, r := range rows {
		label := SourceLabel(r.Source)
		t, ok := totals[label]
		if !ok {
			t = &total{}
			totals[label] = t
			order = append(order, label)
		}
		t.tokens += r.TotalTokens

		var cost *float64
		if r.CostUSD.Valid {
			v := r.CostUSD.Decimal.InexactFloat64()
			cost = &v
			t.cost += v
			t.priced = true
		}
		b.WriteString(renderRow(cols, []string{
			labelStyle.Render(r.Day),
			label,
			FormatTokensExact(r.TotalTokens),
			renderCost(cost),
			dimStyle.Render(strings.Join(r.Models, ", ")),
		}))
		b.WriteByte('\n')
	}

	if len(order) == 0 {
		b.WriteString(dimStyle.Render("no history recorded yet"))
		b.WriteByte('\n')
		return b.String()
	}

	b.WriteByte('\n')
	for _, label := range order {
		t := totals[label]
		var cost *float64
		if t.priced {
			cost = &t.cost
		}
		b.WriteString(renderRow(cols, []string{
			sectionHeaderStyle.Render("total"),
			label,
			FormatTokensExact(t.tokens),
			renderCost(cost),
		}))
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderPricing lists a pricing table in USD per million tokens.
func RenderPricing(table *pricing.Table) string {
	cols := []column{
		{title: "MODEL", width: 22},
		{title: "INPUT", width: 8, align: alignRight},
		{title: "OUTPUT", width: 8, align: alignRight},
		{title: "CACHE R", width: 8, align: alignRight},
		{title: "CACHE W", width: 8, align: alignRight},
		{title: "TIER", width: 36},
	}

	var b strings.Builder
	b.WriteString(renderHeader(cols))
	b.WriteByte('\n')
	for _, model := range table.Models() {
		entry, _ := table.Lookup(model)
		b.WriteString(renderRow(cols, append([]string{valueStyle.Render(model)}, RateCells(entry)...)))
		b.WriteByte('\n')
	}
	return b.String()
}

// RateCells formats an entry's per-million rates and tier description.
func RateCells(e pricing.Entry) []string {
	cells := []string{
		FormatPerMillion(e.Base.Input),
		FormatPerMillion(e.Base.Output),
		FormatPerMillion(e.Base.CacheRead),
		FormatPerMillion(e.Base.CacheWrite),
		"",
	}
	if e.Tier != nil {
		cells[4] = dimStyle.Render(">" + FormatTokens(e.Tier.Threshold) + ": " +
			FormatPerMillion(e.Tier.Rates.Input) + "/" + FormatPerMillion(e.Tier.Rates.Output) + "/" +
			FormatPerMillion(e.Tier.Rates.CacheRead) + "/" + FormatPerMillion(e.Tier.Rates.CacheWrite))
	}
	return cells
}
