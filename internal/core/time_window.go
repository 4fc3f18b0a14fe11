package core

import "time"

const dayKeyLayout = "2006-01-02"

// RollingWindowDays is the width of the "month" window: today plus 29 prior days.
const RollingWindowDays = 30

// DayKey formats t as a zero-padded YYYY-MM-DD string in the host's local zone.
// Lexical order of day keys matches chronological order.
func DayKey(t time.Time) string {
	return t.In(time.Local).Format(dayKeyLayout)
}

// DayWindow is an inclusive range of day keys.
type DayWindow struct {
	Start string
	End   string
}

// RollingWindow returns the window [now-29d, now] by local calendar day.
func RollingWindow(now time.Time) DayWindow {
	return WindowForDays(now, RollingWindowDays)
}

// WindowForDays returns the inclusive window covering the last days calendar
// days ending at now. days below 1 is treated as 1.
func WindowForDays(now time.Time, days int) DayWindow {
	if days < 1 {
		days = 1
	}
	local := now.In(time.Local)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
	start := midnight.AddDate(0, 0, -(days - 1))
	return DayWindow{
		Start: start.Format(dayKeyLayout),
		End:   midnight.Format(dayKeyLayout),
	}
}

// Contains reports whether key falls inside the window.
func (w DayWindow) Contains(key string) bool {
	return key >= w.Start && key <= w.End
}

// ContainsTime reports whether t's local day falls inside the window.
func (w DayWindow) ContainsTime(t time.Time) bool {
	return w.Contains(DayKey(t))
}

// ParseDayKey parses a day key back into local midnight.
func ParseDayKey(key string) (time.Time, bool) {
	t, err := time.ParseInLocation(dayKeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
