package model

// Gender is the user's gender as used by goal baselines.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// UserProfile holds static user attributes used when deriving goals.
// Mutated only through the profile-update path in the settings store.
type UserProfile struct {
	WeightKg int    `json:"weight_kg"`
	HeightCm int    `json:"height_cm"`
	Age      int    `json:"age"`
	Gender   Gender `json:"gender"`
	IsActive bool   `json:"is_active"`
}

// DefaultProfile returns the profile used before onboarding completes.
func DefaultProfile() UserProfile {
	return UserProfile{
		WeightKg: 70,
		HeightCm: 170,
		Age:      30,
		Gender:   GenderMale,
		IsActive: false,
	}
}
