package scheduler

import (
	"time"

	"aquatrack/internal/model"
)

// fireTimes enumerates future instants at the given interval within the
// horizon, starting one interval after now. Instants inside the quiet
// window are skipped outright, not delayed to the window's end.
func fireTimes(now time.Time, interval, horizon time.Duration, quiet model.QuietHours) []time.Time {
	if interval <= 0 {
		return nil
	}

	var times []time.Time
	end := now.Add(horizon)
	for t := now.Add(interval); !t.After(end); t = t.Add(interval) {
		if quiet.Contains(t.Hour()) {
			continue
		}
		times = append(times, t)
	}
	return times
}

// nextDaily returns the next occurrence of the given hour.
func nextDaily(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// nextWeekly returns the next occurrence of the given weekday and hour.
// Weekday numbering follows time.Weekday: 0 = Sunday.
func nextWeekly(now time.Time, weekday time.Weekday, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	days := (int(weekday) - int(now.Weekday()) + 7) % 7
	next = next.AddDate(0, 0, days)
	if !next.After(now) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}
