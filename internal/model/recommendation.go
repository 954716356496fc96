package model

// ReasonTag identifies which signal produced a goal adjustment. The
// presentation layer resolves tags to localized text; the core never
// embeds language-specific strings.
type ReasonTag string

const (
	ReasonActivity ReasonTag = "activity"
	ReasonWeather  ReasonTag = "weather"
	ReasonDetox    ReasonTag = "detox"
)

// Reason is one tagged adjustment applied while deriving a goal.
// Value carries the triggering signal magnitude (steps or °C).
type Reason struct {
	Tag      ReasonTag `json:"tag"`
	AmountMl int       `json:"amount_ml"`
	Value    float64   `json:"value"`
}

// GoalRecommendation is a derived value recomputed on demand. The base
// goal in the settings store stays the source of truth.
type GoalRecommendation struct {
	RecommendedGoalMl int      `json:"recommended_goal_ml"`
	Reasons           []Reason `json:"reasons"`
}
