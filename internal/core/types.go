package core

import (
	"errors"
	"time"
)

// Source identifies one of the supported CLI log formats.
type Source string

const (
	SourceCodex      Source = "codex"
	SourceClaudeCode Source = "claude_code"
)

var ErrNoData = errors.New("no usage data in window")

// DefaultCurrency labels every snapshot; rates in the pricing tables are USD.
const DefaultCurrency = "USD"

// UsageEvent is one normalized per-event token delta emitted by a source parser.
type UsageEvent struct {
	Timestamp  time.Time
	Model      string // raw model id as logged
	Input      int64
	Output     int64
	CacheRead  int64
	CacheWrite int64
}

// Empty reports whether the event carries no tokens in any category.
func (e UsageEvent) Empty() bool {
	return e.Input == 0 && e.Output == 0 && e.CacheRead == 0 && e.CacheWrite == 0
}

// DayTotals accumulates usage for a single local calendar day.
type DayTotals struct {
	Input      int64
	Output     int64
	CacheRead  int64
	CacheWrite int64
	CostUSD    float64
	CostSeen   bool
	Models     map[string]struct{}
}

func (d *DayTotals) Add(ev UsageEvent, model string, cost float64, priced bool) {
	d.Input += ev.Input
	d.Output += ev.Output
	d.CacheRead += ev.CacheRead
	d.CacheWrite += ev.CacheWrite
	if priced {
		d.CostUSD += cost
		d.CostSeen = true
	}
	if model != "" {
		if d.Models == nil {
			d.Models = make(map[string]struct{})
		}
		d.Models[model] = struct{}{}
	}
}

// DayReport is the serialized view of one in-window day.
type DayReport struct {
	Date             string   `json:"date"` // "2025-01-15"
	InputTokens      int64    `json:"input_tokens"`
	OutputTokens     int64    `json:"output_tokens"`
	CacheReadTokens  int64    `json:"cache_read_tokens"`
	CacheWriteTokens int64    `json:"cache_write_tokens"`
	TotalTokens      int64    `json:"total_tokens"`
	CostUSD          *float64 `json:"cost_usd,omitempty"` // nil when no priced event landed on this day
	Models           []string `json:"models,omitempty"`
}

// CostSnapshot is the engine's output for one source over the rolling window.
type CostSnapshot struct {
	Source       Source      `json:"source"`
	TodayDate    string      `json:"today_date"`
	TodayTokens  int64       `json:"today_tokens"`
	TodayCostUSD *float64    `json:"today_cost_usd,omitempty"`
	MonthTokens  int64       `json:"month_tokens"`
	MonthCostUSD float64     `json:"month_cost_usd"`
	Currency     string      `json:"currency"`
	Daily        []DayReport `json:"daily,omitempty"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// ScanOptions configures one scan invocation. Zero values fall back to
// environment variables and platform defaults.
type ScanOptions struct {
	CodexSessionsRoot   string
	ClaudeProjectsRoots []string
	Now                 time.Time
}

// ResolvedNow returns Now in the host's local zone, or the wall clock when unset.
func (o ScanOptions) ResolvedNow() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now.In(time.Local)
}
