package insight

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquatrack/internal/model"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func newTestForecaster(windowDays int) *Forecaster {
	f := NewForecaster(windowDays)
	f.now = func() time.Time { return testNow }
	return f
}

// days builds consecutive daily logs ending the given number of days
// before testNow, with the provided totals against a 2000ml goal.
func days(endOffset int, totals ...int) []model.DailyIntakeLog {
	logs := make([]model.DailyIntakeLog, len(totals))
	end := testNow.AddDate(0, 0, -endOffset)
	for i, total := range totals {
		day := end.AddDate(0, 0, -(len(totals) - 1 - i))
		logs[i] = model.DailyIntakeLog{
			Day:     day.Format(model.DayFormat),
			TotalMl: total,
			GoalMl:  2000,
		}
	}
	return logs
}

func TestStreakCountsConsecutiveGoalMetDays(t *testing.T) {
	f := newTestForecaster(7)

	s := f.Summarize(days(0, 1000, 2100, 2000, 2500))
	assert.Equal(t, 3, s.StreakDays)
}

func TestStreakResetsOnMissedDay(t *testing.T) {
	f := newTestForecaster(7)

	s := f.Summarize(days(0, 2100, 2100, 1500))
	assert.Equal(t, 0, s.StreakDays, "today missed the goal, streak is zero")
}

func TestStreakAllowsEndingYesterday(t *testing.T) {
	f := newTestForecaster(7)

	s := f.Summarize(days(1, 2100, 2100))
	assert.Equal(t, 2, s.StreakDays)
}

func TestStreakZeroWhenHistoryStale(t *testing.T) {
	f := newTestForecaster(7)

	s := f.Summarize(days(3, 2100, 2100))
	assert.Equal(t, 0, s.StreakDays, "a run ending before yesterday does not count")
}

func TestStreakZeroOnEmptyHistory(t *testing.T) {
	f := newTestForecaster(7)
	assert.Equal(t, 0, f.Summarize(nil).StreakDays)
}

func TestStreakBrokenByGap(t *testing.T) {
	f := newTestForecaster(7)

	logs := days(0, 2100, 2100)
	// Remove the middle day by shifting the first log two days back.
	logs[0].Day = testNow.AddDate(0, 0, -2).Format(model.DayFormat)
	s := f.Summarize(logs)
	assert.Equal(t, 1, s.StreakDays, "a missing day breaks the run")
}

func TestTrendUp(t *testing.T) {
	f := newTestForecaster(3)

	s := f.Summarize(days(0, 1000, 1000, 1000, 2000, 2000, 2000))
	assert.Equal(t, TrendUp, s.Trend)
}

func TestTrendDown(t *testing.T) {
	f := newTestForecaster(3)

	s := f.Summarize(days(0, 2000, 2000, 2000, 1000, 1000, 1000))
	assert.Equal(t, TrendDown, s.Trend)
}

func TestTrendFlatWithinMargin(t *testing.T) {
	f := newTestForecaster(3)

	s := f.Summarize(days(0, 2000, 2000, 2000, 2040, 2040, 2040))
	assert.Equal(t, TrendFlat, s.Trend, "a two percent change stays within the flat margin")
}

func TestTrendFlatOnShortHistory(t *testing.T) {
	f := newTestForecaster(7)

	s := f.Summarize(days(0, 2000, 2000, 2000))
	assert.Equal(t, TrendFlat, s.Trend)
}

func TestInsightsOrderMostActionableFirst(t *testing.T) {
	f := newTestForecaster(3)

	// Declining intake that still met the goal early on: trend_down must
	// lead, hit-rate warning follows.
	s := f.Summarize(days(0, 2500, 2500, 2500, 1000, 1000, 1000))
	require.NotEmpty(t, s.Insights)
	assert.Equal(t, InsightTrendDown, s.Insights[0].Tag)

	found := false
	for _, in := range s.Insights {
		if in.Tag == InsightHitRateLow {
			found = true
			assert.InDelta(t, 0, in.Value, 0.01)
		}
	}
	assert.True(t, found, "expected a low hit-rate insight")
}

func TestInsightsStreakAndHighHitRate(t *testing.T) {
	f := newTestForecaster(3)

	s := f.Summarize(days(0, 2100, 2100, 2100))
	require.NotEmpty(t, s.Insights)
	assert.Equal(t, InsightStreak, s.Insights[0].Tag)
	assert.Equal(t, float64(3), s.Insights[0].Value)

	last := s.Insights[len(s.Insights)-1]
	assert.Equal(t, InsightHitRateHigh, last.Tag)
	assert.InDelta(t, 100, last.Value, 0.01)
}

func TestInsightsRestartable(t *testing.T) {
	f := newTestForecaster(3)
	history := days(0, 2100, 2100, 2100)

	first := f.Summarize(history).Insights
	second := f.Summarize(history).Insights
	assert.Equal(t, first, second, "summaries over identical history must match")
}
