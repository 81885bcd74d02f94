package account

import (
	"strings"
	"time"
)

// Theme selects the display theme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// StrictnessMode controls how literally generation respects the pantry.
type StrictnessMode string

const (
	StrictnessFlexible StrictnessMode = "flexible"
	StrictnessBalanced StrictnessMode = "balanced"
	StrictnessStrict   StrictnessMode = "strict"
)

// HealthGoal is the user's stated nutrition objective.
type HealthGoal string

const (
	HealthGoalNone      HealthGoal = "none"
	HealthGoalLoseFat   HealthGoal = "lose_fat"
	HealthGoalGainMass  HealthGoal = "gain_mass"
	HealthGoalMaintain  HealthGoal = "maintain"
	HealthGoalEatClean  HealthGoal = "eat_clean"
)

// MeasurementSystem selects unit presentation.
type MeasurementSystem string

const (
	MeasurementImperial MeasurementSystem = "imperial"
	MeasurementMetric   MeasurementSystem = "metric"
)

// NutritionTargets are the user's daily targets.
type NutritionTargets struct {
	Calories int `json:"calories,omitempty"`
	Protein  int `json:"protein_g,omitempty"`
	Carbs    int `json:"carbs_g,omitempty"`
	Fat      int `json:"fat_g,omitempty"`
}

// Preferences is the identity-scoped configuration blob. Exactly one
// record exists per identity, seeded with defaults on first load.
type Preferences struct {
	DisplayName string `json:"display_name,omitempty"`
	Theme       Theme  `json:"theme"`

	Tier           Tier       `json:"tier"`
	TrialStartedAt *time.Time `json:"trial_started_at,omitempty"`
	// GenerationsUsed counts free-tier AI usage against the quota.
	GenerationsUsed int `json:"generations_used"`

	Dietary    []string `json:"dietary,omitempty"`
	Allergies  []string `json:"allergies,omitempty"`
	Appliances []string `json:"appliances,omitempty"`
	SkillLevel string   `json:"skill_level,omitempty"`

	Strictness  StrictnessMode    `json:"strictness"`
	HealthGoal  HealthGoal        `json:"health_goal"`
	Targets     NutritionTargets  `json:"targets"`
	Measurement MeasurementSystem `json:"measurement"`

	Notifications bool `json:"notifications"`
}

// DefaultPreferences seeds the record created for a fresh identity.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:         ThemeLight,
		Tier:          TierNone,
		Strictness:    StrictnessBalanced,
		HealthGoal:    HealthGoalNone,
		Measurement:   MeasurementImperial,
		Notifications: true,
	}
}

// ParseStrictness maps a raw string onto the strictness modes,
// defaulting to balanced.
func ParseStrictness(raw string) StrictnessMode {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(StrictnessFlexible):
		return StrictnessFlexible
	case string(StrictnessStrict):
		return StrictnessStrict
	default:
		return StrictnessBalanced
	}
}
