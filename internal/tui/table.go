package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/janekbaraniewski/tokencost/internal/core"
)

type align int

const (
	alignLeft align = iota
	alignRight
)

type column struct {
	title string
	width int
	align align
}

// fit pads or truncates s to exactly width terminal cells.
func fit(s string, width int, a align) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) > width {
		s = ansi.Truncate(s, width, "…")
	}
	pad := width - ansi.StringWidth(s)
	if pad <= 0 {
		return s
	}
	if a == alignRight {
		return strings.Repeat(" ", pad) + s
	}
	return s + strings.Repeat(" ", pad)
}

func renderRow(cols []column, cells []string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = fit(cell, c.width, c.align)
	}
	return strings.Join(parts, "  ")
}

func renderHeader(cols []column) string {
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = tableHeaderStyle.Render(c.title)
	}
	return renderRow(cols, titles)
}

// SummaryRow is one line of the summary table. Snapshot is nil for a source
// with no data; Err is set when the scan failed.
type SummaryRow struct {
	Source   core.Source
	Snapshot *core.CostSnapshot
	Err      error
}

// RenderSummary renders one row per source with today's and the rolling
// month's figures.
func RenderSummary(rows []SummaryRow) string {
	cols := []column{
		{title: "SOURCE", width: 12},
		{title: "DAY", width: 10},
		{title: "TODAY TOKENS", width: 12, align: alignRight},
		{title: "TODAY COST", width: 10, align: alignRight},
		{title: "30D TOKENS", width: 12, align: alignRight},
		{title: "30D COST", width: 10, align: alignRight},
	}

	var b strings.Builder
	b.WriteString(renderHeader(cols))
	b.WriteByte('\n')
	for _, r := range rows {
		name := lipgloss.NewStyle().Foreground(SourceColor(r.Source)).Bold(true).Render(SourceLabel(r.Source))
		switch {
		case r.Err != nil:
			b.WriteString(renderRow(cols[:1], []string{name}) + "  " + errorStyle.Render("error: "+r.Err.Error()))
		case r.Snapshot == nil:
			b.WriteString(renderRow(cols[:1], []string{name}) + "  " + dimStyle.Render("no data"))
		default:
			s := r.Snapshot
			b.WriteString(renderRow(cols, []string{
				name,
				labelStyle.Render(s.TodayDate),
				valueStyle.Render(FormatTokens(s.TodayTokens)),
				renderCost(s.TodayCostUSD),
				valueStyle.Render(FormatTokens(s.MonthTokens)),
				costStyle.Render(FormatUSD(s.MonthCostUSD)),
			}))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func renderCost(cost *float64) string {
	if cost == nil {
		return unpricedStyle.Render(FormatCost(nil))
	}
	return costStyle.Render(FormatCost(cost))
}

// RenderDaily renders the per-day breakdown of snap with a token bar scaled
// to the busiest day. width bounds the bar column.
func RenderDaily(snap core.CostSnapshot, width int) string {
	barWidth := max(8, min(40, width-72))
	cols := []column{
		{title: "DAY", width: 10},
		{title: "INPUT", width: 8, align: alignRight},
		{title: "OUTPUT", width: 8, align: alignRight},
		{title: "CACHE R", width: 8, align: alignRight},
		{title: "CACHE W", width: 8, align: alignRight},
		{title: "COST", width: 8, align: alignRight},
		{title: "TOKENS", width: barWidth + 8},
	}

	var peak int64
	for _, d := range snap.Daily {
		peak = max(peak, d.TotalTokens)
	}
	color := SourceColor(snap.Source)

	var b strings.Builder
	b.WriteString(renderHeader(cols))
	b.WriteByte('\n')
	for _, d := range snap.Daily {
		b.WriteString(renderRow(cols, []string{
			labelStyle.Render(d.Date),
			FormatTokens(d.InputTokens),
			FormatTokens(d.OutputTokens),
			FormatTokens(d.CacheReadTokens),
			FormatTokens(d.CacheWriteTokens),
			renderCost(d.CostUSD),
			RenderBar(d.TotalTokens, peak, barWidth, color) + " " + FormatTokens(d.TotalTokens),
		}))
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderBar draws value/peak as a horizontal bar of the given width.
func RenderBar(value, peak int64, width int, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if peak > 0 && value > 0 {
		filled = int(float64(value) / float64(peak) * float64(width))
		filled = max(1, min(width, filled))
	}
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("━", filled)) +
		barTrackStyle.Render(strings.Repeat("━", width-filled))
}
