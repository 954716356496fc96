package insight

import (
	"time"

	"aquatrack/internal/model"
)

// TrendDirection compares recent intake against the preceding window.
type TrendDirection string

const (
	TrendUp   TrendDirection = "up"
	TrendDown TrendDirection = "down"
	TrendFlat TrendDirection = "flat"
)

// InsightTag identifies an observation; the presentation layer resolves
// tags to localized text.
type InsightTag string

const (
	InsightTrendDown   InsightTag = "trend_down"
	InsightHitRateLow  InsightTag = "hit_rate_low"
	InsightStreak      InsightTag = "streak"
	InsightTrendUp     InsightTag = "trend_up"
	InsightHitRateHigh InsightTag = "hit_rate_high"
)

// Insight is one tagged observation with its numeric parameter.
type Insight struct {
	Tag   InsightTag `json:"tag"`
	Value float64    `json:"value"`
}

// Summary is the analytics result over a user's intake history.
type Summary struct {
	StreakDays int            `json:"streak_days"`
	Trend      TrendDirection `json:"trend"`
	Insights   []Insight      `json:"insights"`
}

// trendMargin is the relative change below which the trend reads flat.
const trendMargin = 0.05

// Forecaster derives streak, trend and tagged observations from the
// persisted daily logs. Pure and read-only.
type Forecaster struct {
	windowDays int
	now        func() time.Time
}

// NewForecaster creates a forecaster. windowDays <= 0 selects the
// default 7-day window.
func NewForecaster(windowDays int) *Forecaster {
	if windowDays <= 0 {
		windowDays = 7
	}
	return &Forecaster{windowDays: windowDays, now: time.Now}
}

// Summarize computes the summary over history, which must be in
// ascending day order.
func (f *Forecaster) Summarize(history []model.DailyIntakeLog) Summary {
	s := Summary{
		StreakDays: f.streak(history),
		Trend:      f.trend(history),
	}
	s.Insights = f.insights(history, s)
	return s
}

// streak counts consecutive most-recent goal-met days. The run must end
// today or yesterday; an older last entry or any gap resets it to zero.
func (f *Forecaster) streak(history []model.DailyIntakeLog) int {
	if len(history) == 0 {
		return 0
	}

	today := f.now().Format(model.DayFormat)
	yesterday := f.now().AddDate(0, 0, -1).Format(model.DayFormat)

	last := history[len(history)-1]
	if last.Day != today && last.Day != yesterday {
		return 0
	}

	streak := 0
	expected := last.Date()
	for i := len(history) - 1; i >= 0; i-- {
		l := history[i]
		if l.Day != expected.Format(model.DayFormat) || !l.GoalMet() {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak
}

// trend compares the mean of the most recent window against the mean of
// the window before it.
func (f *Forecaster) trend(history []model.DailyIntakeLog) TrendDirection {
	n := f.windowDays
	if len(history) < 2*n {
		return TrendFlat
	}

	recent := mean(history[len(history)-n:])
	prior := mean(history[len(history)-2*n : len(history)-n])
	if prior == 0 {
		return TrendFlat
	}

	change := (recent - prior) / prior
	switch {
	case change > trendMargin:
		return TrendUp
	case change < -trendMargin:
		return TrendDown
	default:
		return TrendFlat
	}
}

// insights builds the ordered observation list, most actionable first.
func (f *Forecaster) insights(history []model.DailyIntakeLog, s Summary) []Insight {
	var out []Insight

	hitRate := f.hitRate(history)

	if s.Trend == TrendDown {
		out = append(out, Insight{Tag: InsightTrendDown, Value: 0})
	}
	if hitRate >= 0 && hitRate < 50 {
		out = append(out, Insight{Tag: InsightHitRateLow, Value: hitRate})
	}
	if s.StreakDays >= 2 {
		out = append(out, Insight{Tag: InsightStreak, Value: float64(s.StreakDays)})
	}
	if s.Trend == TrendUp {
		out = append(out, Insight{Tag: InsightTrendUp, Value: 0})
	}
	if hitRate >= 80 {
		out = append(out, Insight{Tag: InsightHitRateHigh, Value: hitRate})
	}
	return out
}

// hitRate returns the goal-met percentage over the recent window, or -1
// when there is no history to judge.
func (f *Forecaster) hitRate(history []model.DailyIntakeLog) float64 {
	window := history
	if len(window) > f.windowDays {
		window = window[len(window)-f.windowDays:]
	}
	if len(window) == 0 {
		return -1
	}

	met := 0
	for _, l := range window {
		if l.GoalMet() {
			met++
		}
	}
	return float64(met) / float64(len(window)) * 100
}

func mean(logs []model.DailyIntakeLog) float64 {
	if len(logs) == 0 {
		return 0
	}
	sum := 0
	for _, l := range logs {
		sum += l.TotalMl
	}
	return float64(sum) / float64(len(logs))
}
