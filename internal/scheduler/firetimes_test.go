package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"aquatrack/internal/model"
)

func TestFireTimesSkippedNotDelayed(t *testing.T) {
	// 20:00 with a 3h interval: 23:00 falls in quiet hours and must be
	// absent, not moved to 07:00.
	now := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)
	quiet := model.QuietHours{Enabled: true, StartHour: 22, EndHour: 7}

	times := fireTimes(now, 3*time.Hour, 12*time.Hour, quiet)

	for _, ft := range times {
		assert.NotEqual(t, 23, ft.Hour())
		assert.NotEqual(t, 2, ft.Hour())
		assert.NotEqual(t, 5, ft.Hour())
	}
	// Only 08:00 survives out of 23:00, 02:00, 05:00, 08:00.
	assert.Len(t, times, 1)
	assert.Equal(t, 8, times[0].Hour())
}

func TestFireTimesDisabledQuietHours(t *testing.T) {
	now := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)
	quiet := model.QuietHours{Enabled: false, StartHour: 22, EndHour: 7}

	times := fireTimes(now, 3*time.Hour, 12*time.Hour, quiet)
	assert.Len(t, times, 4)
}

func TestFireTimesNonPositiveInterval(t *testing.T) {
	now := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)
	assert.Empty(t, fireTimes(now, 0, 12*time.Hour, model.QuietHours{}))
}

func TestNextDaily(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	// Later today.
	next := nextDaily(now, 21)
	assert.Equal(t, time.Date(2026, 9, 1, 21, 0, 0, 0, time.UTC), next)

	// Already passed: tomorrow.
	next = nextDaily(now, 8)
	assert.Equal(t, time.Date(2026, 9, 2, 8, 0, 0, 0, time.UTC), next)

	// Exactly now: tomorrow, never the current instant.
	next = nextDaily(now, 12)
	assert.Equal(t, time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC), next)
}

func TestNextWeekly(t *testing.T) {
	// 2026-09-01 is a Tuesday.
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	// Next Sunday at 10:00.
	next := nextWeekly(now, time.Sunday, 10)
	assert.Equal(t, time.Date(2026, 9, 6, 10, 0, 0, 0, time.UTC), next)
	assert.Equal(t, time.Sunday, next.Weekday())

	// Same weekday, hour already passed: a full week out.
	next = nextWeekly(now, time.Tuesday, 9)
	assert.Equal(t, time.Date(2026, 9, 8, 9, 0, 0, 0, time.UTC), next)

	// Same weekday, hour still ahead: later today.
	next = nextWeekly(now, time.Tuesday, 18)
	assert.Equal(t, time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC), next)
}
