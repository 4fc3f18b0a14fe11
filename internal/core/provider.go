package core

import (
	"context"
	"io"
)

type SourceInfo struct {
	Name   string // e.g. "OpenAI Codex CLI"
	EnvVar string // root override variable read at resolution time
	DocURL string
}

// LogSource is implemented once per supported CLI log format.
type LogSource interface {
	ID() Source

	Describe() SourceInfo

	// Roots returns every directory to scan. Missing directories are allowed.
	Roots(opts ScanOptions) []string

	// ParseFile reads one log file and calls emit for every accepted event
	// whose local day falls inside window. Parser state is scoped to r.
	ParseFile(r io.Reader, window DayWindow, emit func(UsageEvent)) error

	// Billable maps a logged event onto the four priced categories.
	Billable(ev UsageEvent) UsageEvent

	// DayTokens sums the categories this vendor reports as token usage.
	DayTokens(d DayTotals) int64
}

// SnapshotScanner is the asynchronous boundary the refresh engine drives.
type SnapshotScanner interface {
	ScanAsync(ctx context.Context, src Source, opts ScanOptions) (CostSnapshot, error)
}
