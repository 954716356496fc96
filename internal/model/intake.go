package model

import (
	"math"
	"time"
)

// DayFormat is the canonical day key for intake logs.
const DayFormat = "2006-01-02"

// DailyIntakeLog is one calendar day of recorded intake against the goal
// that was active that day. Source of truth for analytics.
type DailyIntakeLog struct {
	Day     string `json:"day"` // YYYY-MM-DD
	TotalMl int    `json:"total_ml"`
	GoalMl  int    `json:"goal_ml"`
}

// Date parses the day key. Zero time on a malformed key.
func (l DailyIntakeLog) Date() time.Time {
	t, _ := time.Parse(DayFormat, l.Day)
	return t
}

// GoalMet reports whether the day's intake reached its goal.
func (l DailyIntakeLog) GoalMet() bool {
	return l.GoalMl > 0 && l.TotalMl >= l.GoalMl
}

// PercentOfGoal returns intake progress as a rounded percentage.
func PercentOfGoal(totalMl, goalMl int) int {
	if goalMl <= 0 {
		return 0
	}
	return int(math.Round(float64(totalMl) / float64(goalMl) * 100))
}

// RemainingMl returns how much is left to the goal, never negative.
func RemainingMl(goalMl, totalMl int) int {
	if rest := goalMl - totalMl; rest > 0 {
		return rest
	}
	return 0
}
