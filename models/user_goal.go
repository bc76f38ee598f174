package models

import "time"

// Weight objectives are informational tags only; they never change how
// calories are accounted.
const (
	WeightObjectiveMaintain = "maintain"
	WeightObjectiveLose     = "lose"
	WeightObjectiveGain     = "gain"
)

// UserGoalConfig holds the single active daily calorie goal per user.
// Setting a new goal overwrites the old one; there is no goal history.
type UserGoalConfig struct {
	UserID           int64     `gorm:"primaryKey" json:"user_id"`
	DailyCalorieGoal int       `gorm:"not null" json:"daily_calorie_goal"`
	WeightObjective  string    `gorm:"size:16" json:"weight_objective,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
