package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fperezb/diet-agent-telegram/models"
)

func newTrackerFixture(t *testing.T) (*TrackerService, *GoalService, *AlertService) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)
	goals := NewGoalService(db, ledger)
	alerts := NewAlertService(db, NewRealtimeHub())
	tracker := NewTrackerService(NewNutritionService(), ledger, goals, alerts)
	return tracker, goals, alerts
}

func chickenRiceAnalysis() *models.FoodAnalysis {
	return &models.FoodAnalysis{
		Foods: []models.IdentifiedFood{
			{Name: "pollo", Confidence: 0.95, Nutrition: &models.Nutrition{Calories: 350, Protein: 45, Fat: 9}},
			{Name: "arroz", Confidence: 0.85, Nutrition: &models.Nutrition{Calories: 250, Carbs: 55, Protein: 5}},
		},
	}
}

func TestRecordMealWithoutGoal(t *testing.T) {
	tracker, _, _ := newTrackerFixture(t)

	res, err := tracker.RecordMeal(7, chickenRiceAnalysis(), "")
	require.NoError(t, err)

	assert.NotZero(t, res.MealID)
	assert.Equal(t, 600, res.Nutrition.TotalCalories)
	assert.False(t, res.GoalCheck.HasGoal)
	assert.Contains(t, res.GoalCheck.Message, "/meta")
	assert.Equal(t, 1, res.Daily.MealCount)
	assert.Equal(t, 600, res.Daily.TotalCalories)
}

func TestRecordMealAccumulatesAcrossMeals(t *testing.T) {
	tracker, goals, _ := newTrackerFixture(t)
	require.NoError(t, goals.SetGoal(7, 2000, models.WeightObjectiveMaintain))

	first, err := tracker.RecordMeal(7, chickenRiceAnalysis(), "")
	require.NoError(t, err)
	assert.Equal(t, GoalStatusSafe, first.GoalCheck.Status)
	assert.Equal(t, 0, first.GoalCheck.CurrentCalories)

	second, err := tracker.RecordMeal(7, chickenRiceAnalysis(), "")
	require.NoError(t, err)
	assert.Equal(t, 600, second.GoalCheck.CurrentCalories)
	assert.Equal(t, 1200, second.GoalCheck.ProjectedCalories)
	assert.Equal(t, 2, second.Daily.MealCount)
	assert.Equal(t, 1200, second.Daily.TotalCalories)
}

func TestRecordMealEmitsAlertOnExceed(t *testing.T) {
	tracker, goals, alerts := newTrackerFixture(t)
	require.NoError(t, goals.SetGoal(7, 800, models.WeightObjectiveLose))

	// 600 kcal against an 800 kcal goal is safe; the second meal projects to
	// 1200, well past the tolerance band.
	_, err := tracker.RecordMeal(7, chickenRiceAnalysis(), "")
	require.NoError(t, err)

	res, err := tracker.RecordMeal(7, chickenRiceAnalysis(), "")
	require.NoError(t, err)
	assert.Equal(t, GoalStatusExceed, res.GoalCheck.Status)

	recent, err := alerts.Recent(7, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, GoalStatusExceed, recent[0].Type)
	assert.Equal(t, res.GoalCheck.Message, recent[0].Message)
}

func TestRecordMealCommittedDespiteExceed(t *testing.T) {
	tracker, goals, _ := newTrackerFixture(t)
	require.NoError(t, goals.SetGoal(7, 800, models.WeightObjectiveLose))

	for i := 0; i < 3; i++ {
		_, err := tracker.RecordMeal(7, chickenRiceAnalysis(), "")
		require.NoError(t, err)
	}

	stats, err := tracker.DailyStats(7)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Summary.MealCount)
	assert.Equal(t, 1800, stats.Summary.TotalCalories)
}

func TestDailyStats(t *testing.T) {
	tracker, goals, _ := newTrackerFixture(t)
	require.NoError(t, goals.SetGoal(7, 2000, models.WeightObjectiveMaintain))

	_, err := tracker.RecordMeal(7, chickenRiceAnalysis(), "")
	require.NoError(t, err)

	stats, err := tracker.DailyStats(7)
	require.NoError(t, err)
	assert.Equal(t, 600, stats.Summary.TotalCalories)
	assert.Equal(t, 600, stats.Weekly.TotalCalories)
	require.NotNil(t, stats.Goal)
	assert.Equal(t, 2000, stats.Goal.DailyCalorieGoal)
	assert.Equal(t, time.Now().Format("2006-01-02"), stats.Summary.Date)
}

func TestEraseUser(t *testing.T) {
	tracker, goals, _ := newTrackerFixture(t)
	require.NoError(t, goals.SetGoal(7, 2000, models.WeightObjectiveMaintain))

	for i := 0; i < 2; i++ {
		_, err := tracker.RecordMeal(7, chickenRiceAnalysis(), "")
		require.NoError(t, err)
	}

	count, err := tracker.EraseUser(7)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	goal, err := goals.GetGoal(7)
	require.NoError(t, err)
	assert.Nil(t, goal)

	stats, err := tracker.DailyStats(7)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Summary.MealCount)
}

func TestFoodsSummaryText(t *testing.T) {
	assert.Equal(t, "pollo (95%), arroz (85%)", foodsSummaryText(chickenRiceAnalysis()))
	assert.Equal(t, "comida sin identificar", foodsSummaryText(nil))
	assert.Equal(t, "comida sin identificar", foodsSummaryText(&models.FoodAnalysis{}))

	// Zero confidence renders as a full-confidence identification.
	a := &models.FoodAnalysis{Foods: []models.IdentifiedFood{{Name: "pan"}}}
	assert.Equal(t, "pan (100%)", foodsSummaryText(a))
}
