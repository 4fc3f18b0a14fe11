package scan

import (
	"errors"
	"maps"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/janekbaraniewski/tokencost/internal/core"
	"github.com/janekbaraniewski/tokencost/internal/pricing"
)

// dayBuckets folds accepted events into per-day totals. It is owned by a
// single scan and discarded once the snapshot is built.
type dayBuckets struct {
	source core.LogSource
	calc   *pricing.Calculator
	days   map[string]*core.DayTotals

	events   int
	unpriced int
}

func newDayBuckets(source core.LogSource, calc *pricing.Calculator) *dayBuckets {
	return &dayBuckets{
		source: source,
		calc:   calc,
		days:   make(map[string]*core.DayTotals),
	}
}

func (b *dayBuckets) add(ev core.UsageEvent) {
	if ev.Empty() {
		return
	}
	billed := b.source.Billable(ev)
	cost, model, err := b.calc.Cost(b.source.ID(), ev.Model, pricing.Usage{
		Input:      billed.Input,
		Output:     billed.Output,
		CacheRead:  billed.CacheRead,
		CacheWrite: billed.CacheWrite,
	})
	priced := err == nil
	if !priced {
		b.unpriced++
	}

	key := core.DayKey(ev.Timestamp)
	day, ok := b.days[key]
	if !ok {
		day = &core.DayTotals{}
		b.days[key] = day
	}
	day.Add(ev, model, cost, priced)
	b.events++
}

// snapshot builds the cost snapshot for window. It returns core.ErrNoData
// when no in-window day carries tokens or a priced cost.
func (b *dayBuckets) snapshot(window core.DayWindow, now time.Time) (core.CostSnapshot, error) {
	keys := lo.Filter(lo.Keys(b.days), func(key string, _ int) bool {
		return window.Contains(key)
	})
	if len(keys) == 0 {
		return core.CostSnapshot{}, core.ErrNoData
	}
	slices.Sort(keys)

	daily := lo.Map(keys, func(key string, _ int) core.DayReport {
		return b.report(key, b.days[key])
	})

	var (
		monthTokens int64
		monthCost   float64
		costSeen    bool
	)
	for _, key := range keys {
		day := b.days[key]
		monthTokens += b.source.DayTokens(*day)
		if day.CostSeen {
			monthCost += day.CostUSD
			costSeen = true
		}
	}
	if monthTokens == 0 && !costSeen {
		return core.CostSnapshot{}, core.ErrNoData
	}

	today := daily[len(daily)-1]
	return core.CostSnapshot{
		Source:       b.source.ID(),
		TodayDate:    today.Date,
		TodayTokens:  today.TotalTokens,
		TodayCostUSD: today.CostUSD,
		MonthTokens:  monthTokens,
		MonthCostUSD: monthCost,
		Currency:     core.DefaultCurrency,
		Daily:        daily,
		UpdatedAt:    now,
	}, nil
}

func (b *dayBuckets) report(key string, day *core.DayTotals) core.DayReport {
	r := core.DayReport{
		Date:             key,
		InputTokens:      day.Input,
		OutputTokens:     day.Output,
		CacheReadTokens:  day.CacheRead,
		CacheWriteTokens: day.CacheWrite,
		TotalTokens:      b.source.DayTokens(*day),
		Models:           slices.Sorted(maps.Keys(day.Models)),
	}
	if day.CostSeen {
		cost := day.CostUSD
		r.CostUSD = &cost
	}
	return r
}

// IsNoData reports whether err is the ordinary "nothing in window" outcome.
func IsNoData(err error) bool {
	return errors.Is(err, core.ErrNoData)
}
