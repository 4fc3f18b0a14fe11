package tui

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var minDisplayCost = decimal.New(1, -2)

// FormatTokens prints exact counts below ten thousand and SI-compact above.
func FormatTokens(n int64) string {
	if n < 10_000 && n > -10_000 {
		return humanize.Comma(n)
	}
	return strings.ReplaceAll(humanize.SIWithDigits(float64(n), 1, ""), " ", "")
}

// FormatTokensExact always prints the full comma-grouped count.
func FormatTokensExact(n int64) string {
	return humanize.Comma(n)
}

// FormatCost renders a USD amount with cent precision. Nil means no priced
// usage was seen and renders as a dash.
func FormatCost(cost *float64) string {
	if cost == nil {
		return "—"
	}
	return FormatUSD(*cost)
}

func FormatUSD(cost float64) string {
	d := decimal.NewFromFloat(cost)
	if d.IsPositive() && d.LessThan(minDisplayCost) {
		return "<$0.01"
	}
	return "$" + d.StringFixed(2)
}

// FormatAgo renders t relative to now, or "never" for the zero time.
func FormatAgo(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// FormatPerMillion renders a per-token USD rate as dollars per million tokens.
func FormatPerMillion(perToken float64) string {
	return "$" + decimal.NewFromFloat(perToken).Shift(6).Round(4).String()
}
