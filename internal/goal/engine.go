package goal

import (
	"math"

	"aquatrack/internal/model"
)

// Activity bonus tiers. Steps below the lowest tier add nothing and
// produce no activity reason.
const (
	stepsHigh = 10000
	stepsMid  = 7000
	stepsLow  = 4000

	bonusStepsHigh = 600
	bonusStepsMid  = 350
	bonusStepsLow  = 150
)

// Heat bonus bands.
const (
	tempHot  = 32.0
	tempWarm = 25.0

	bonusTempHot  = 500
	bonusTempWarm = 300
)

// detoxFactor scales the running total when detox mode is active.
const detoxFactor = 1.2

// Recommend derives an adjusted goal from the base goal and the current
// signals. Adjustments apply in a fixed order (activity, weather, detox)
// and the returned reasons follow that order. A nil weather sample means
// no weather adjustment. The result never drops below baseGoalMl.
func Recommend(baseGoalMl int, weather *model.WeatherSample, stepCount int, detoxActive bool) model.GoalRecommendation {
	total := baseGoalMl
	var reasons []model.Reason

	if bonus := activityBonus(stepCount); bonus > 0 {
		total += bonus
		reasons = append(reasons, model.Reason{
			Tag:      model.ReasonActivity,
			AmountMl: bonus,
			Value:    float64(stepCount),
		})
	}

	if weather != nil {
		if bonus := heatBonus(weather.TemperatureC); bonus > 0 {
			total += bonus
			reasons = append(reasons, model.Reason{
				Tag:      model.ReasonWeather,
				AmountMl: bonus,
				Value:    weather.TemperatureC,
			})
		}
	}

	if detoxActive {
		scaled := int(math.Round(float64(total) * detoxFactor))
		reasons = append(reasons, model.Reason{
			Tag:      model.ReasonDetox,
			AmountMl: scaled - total,
			Value:    detoxFactor,
		})
		total = scaled
	}

	if total < baseGoalMl {
		total = baseGoalMl
	}

	return model.GoalRecommendation{
		RecommendedGoalMl: total,
		Reasons:           reasons,
	}
}

func activityBonus(steps int) int {
	switch {
	case steps >= stepsHigh:
		return bonusStepsHigh
	case steps >= stepsMid:
		return bonusStepsMid
	case steps >= stepsLow:
		return bonusStepsLow
	default:
		return 0
	}
}

func heatBonus(tempC float64) int {
	switch {
	case tempC >= tempHot:
		return bonusTempHot
	case tempC >= tempWarm:
		return bonusTempWarm
	default:
		return 0
	}
}
