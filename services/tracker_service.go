package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/fperezb/diet-agent-telegram/models"
)

// TrackerService is the explicitly constructed service object the gateway
// talks to: it chains resolve -> goal check -> ledger commit -> daily
// read-back for one incoming meal, and fronts the read/erase operations.
type TrackerService struct {
	nutrition *NutritionService
	ledger    *LedgerService
	goals     *GoalService
	alerts    *AlertService
}

func NewTrackerService(nutrition *NutritionService, ledger *LedgerService, goals *GoalService, alerts *AlertService) *TrackerService {
	return &TrackerService{nutrition: nutrition, ledger: ledger, goals: goals, alerts: alerts}
}

// MealLogResult is everything the gateway needs to render one logged meal.
type MealLogResult struct {
	MealID    uint             `json:"meal_id"`
	Nutrition *NutritionResult `json:"nutrition"`
	GoalCheck *GoalCheckResult `json:"goal_check"`
	Daily     *DailySummary    `json:"daily"`
}

// RecordMeal runs the full pipeline for one identification result. The goal
// check is advisory: the meal is committed regardless of its outcome. A
// storage failure on the commit is returned so the caller can tell the user
// the meal was NOT saved.
func (s *TrackerService) RecordMeal(userID int64, analysis *models.FoodAnalysis, photoRef string) (*MealLogResult, error) {
	nutrition := s.nutrition.Resolve(analysis)

	check, err := s.goals.Check(userID, nutrition.TotalCalories)
	if err != nil {
		return nil, fmt.Errorf("goal check failed: %w", err)
	}

	mealID, err := s.ledger.Record(
		userID,
		foodsSummaryText(analysis),
		nutrition.TotalCalories,
		nutrition.ProteinG,
		nutrition.CarbsG,
		nutrition.FatG,
		photoRef,
	)
	if err != nil {
		return nil, fmt.Errorf("meal commit failed: %w", err)
	}

	if s.alerts != nil && (check.Status == GoalStatusWarning || check.Status == GoalStatusExceed) {
		s.alerts.Emit(userID, check.Status, check.Message)
	}

	return &MealLogResult{
		MealID:    mealID,
		Nutrition: nutrition,
		GoalCheck: check,
		Daily:     s.ledger.DailySummary(userID, time.Now()),
	}, nil
}

// DailyStats bundles today's summary with the goal read for /stats.
type DailyStats struct {
	Summary *DailySummary          `json:"summary"`
	Weekly  *WeeklySummary         `json:"weekly"`
	Goal    *models.UserGoalConfig `json:"goal,omitempty"`
}

func (s *TrackerService) DailyStats(userID int64) (*DailyStats, error) {
	goal, err := s.goals.GetGoal(userID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &DailyStats{
		Summary: s.ledger.DailySummary(userID, now),
		Weekly:  s.ledger.WeeklySummary(userID, now),
		Goal:    goal,
	}, nil
}

// EraseUser removes every meal and the goal config for the user, returning
// the number of meal records removed.
func (s *TrackerService) EraseUser(userID int64) (int64, error) {
	count, err := s.ledger.DeleteAll(userID)
	if err != nil {
		return 0, err
	}
	if err := s.goals.DeleteGoal(userID); err != nil {
		return count, err
	}
	return count, nil
}

// foodsSummaryText denormalizes the identified foods into the ledger's
// human-readable summary column, e.g. "pollo (95%), arroz (80%)".
func foodsSummaryText(analysis *models.FoodAnalysis) string {
	if analysis == nil || len(analysis.Foods) == 0 {
		return "comida sin identificar"
	}
	parts := make([]string, 0, len(analysis.Foods))
	for _, f := range analysis.Foods {
		parts = append(parts, fmt.Sprintf("%s (%.0f%%)", f.Name, confidenceOrDefault(f.Confidence)*100))
	}
	return strings.Join(parts, ", ")
}
