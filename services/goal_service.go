package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/fperezb/diet-agent-telegram/models"
)

// Domain-validated bounds for a daily calorie goal.
const (
	GoalMinCalories = 800
	GoalMaxCalories = 5000
)

// GoalTolerance is the accepted overshoot band: a projection inside
// goal*GoalTolerance is a warning, beyond it an exceed.
const GoalTolerance = 1.10

// ErrGoalOutOfRange rejects goals outside [GoalMinCalories, GoalMaxCalories].
var ErrGoalOutOfRange = fmt.Errorf("la meta debe estar entre %d y %d kcal", GoalMinCalories, GoalMaxCalories)

// Goal check states.
const (
	GoalStatusSafe    = "safe"
	GoalStatusWarning = "warning"
	GoalStatusExceed  = "exceed"
)

// GoalService stores the per-user calorie goal and evaluates candidate meals
// against it before they reach the ledger. The evaluation is advisory only;
// it never vetoes a write.
type GoalService struct {
	db     *gorm.DB
	ledger *LedgerService
}

func NewGoalService(db *gorm.DB, ledger *LedgerService) *GoalService {
	return &GoalService{db: db, ledger: ledger}
}

// GoalCheckResult classifies a candidate meal against the day's projection.
type GoalCheckResult struct {
	HasGoal             bool    `json:"has_goal"`
	Status              string  `json:"status,omitempty"`
	Message             string  `json:"message"`
	DailyGoal           int     `json:"daily_goal,omitempty"`
	CurrentCalories     int     `json:"current_calories"`
	NewCalories         int     `json:"new_calories"`
	ProjectedCalories   int     `json:"projected_calories"`
	CurrentPercentage   float64 `json:"current_percentage,omitempty"`
	ProjectedPercentage float64 `json:"projected_percentage,omitempty"`
	RemainingCalories   int     `json:"remaining_calories"`
}

// SetGoal validates and upserts the user's goal, last write wins.
func (s *GoalService) SetGoal(userID int64, calorieGoal int, weightObjective string) error {
	if calorieGoal < GoalMinCalories || calorieGoal > GoalMaxCalories {
		return ErrGoalOutOfRange
	}

	var goal models.UserGoalConfig
	err := s.db.Where("user_id = ?", userID).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		goal = models.UserGoalConfig{
			UserID:           userID,
			DailyCalorieGoal: calorieGoal,
			WeightObjective:  weightObjective,
		}
		return s.db.Create(&goal).Error
	}
	if err != nil {
		return err
	}

	goal.DailyCalorieGoal = calorieGoal
	goal.WeightObjective = weightObjective
	return s.db.Save(&goal).Error
}

// GetGoal returns the user's goal, or nil when none is configured.
func (s *GoalService) GetGoal(userID int64) (*models.UserGoalConfig, error) {
	var goal models.UserGoalConfig
	err := s.db.Where("user_id = ?", userID).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// Check projects today's total plus the candidate meal against the goal.
// A missing goal is a valid steady state, not an error.
func (s *GoalService) Check(userID int64, candidateCalories int) (*GoalCheckResult, error) {
	goal, err := s.GetGoal(userID)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		return &GoalCheckResult{
			HasGoal:     false,
			NewCalories: candidateCalories,
			Message:     "No tienes una meta calórica configurada. Usa /meta para establecerla.",
		}, nil
	}

	today := s.ledger.DailySummary(userID, time.Now())
	current := today.TotalCalories
	projected := current + candidateCalories
	dailyGoal := goal.DailyCalorieGoal

	res := &GoalCheckResult{
		HasGoal:             true,
		DailyGoal:           dailyGoal,
		CurrentCalories:     current,
		NewCalories:         candidateCalories,
		ProjectedCalories:   projected,
		CurrentPercentage:   round1(float64(current) / float64(dailyGoal) * 100),
		ProjectedPercentage: round1(float64(projected) / float64(dailyGoal) * 100),
		RemainingCalories:   max(0, dailyGoal-current),
	}

	switch {
	case projected <= dailyGoal:
		res.Status = GoalStatusSafe
		res.Message = "✅ ¡Perfecto! Mantendrás tu meta diaria."
	case float64(projected) <= float64(dailyGoal)*GoalTolerance:
		res.Status = GoalStatusWarning
		res.Message = "⚠️ Te acercarás al límite, pero aún dentro del rango aceptable."
	default:
		res.Status = GoalStatusExceed
		excess := projected - dailyGoal
		res.Message = fmt.Sprintf("🚨 ¡ADVERTENCIA! Excederás tu meta por %d kcal. Esto puede afectar tus objetivos de peso.", excess)
	}
	return res, nil
}

// DeleteGoal removes the user's goal config if present.
func (s *GoalService) DeleteGoal(userID int64) error {
	return s.db.Where("user_id = ?", userID).Delete(&models.UserGoalConfig{}).Error
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
