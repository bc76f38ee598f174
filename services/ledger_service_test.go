package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndDailySummary(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err := ledger.recordAt(1, day.Add(8*time.Hour), "huevo (90%)", 150, 12, 1, 10, "")
	require.NoError(t, err)
	_, err = ledger.recordAt(1, day.Add(14*time.Hour), "pollo (95%), arroz (80%)", 450, 38, 35, 9, "")
	require.NoError(t, err)

	// Another user's meal on the same date must not leak in.
	_, err = ledger.recordAt(2, day.Add(9*time.Hour), "pan (80%)", 200, 6, 30, 2, "")
	require.NoError(t, err)

	summary := ledger.DailySummary(1, day)
	assert.Equal(t, "2026-03-10", summary.Date)
	assert.Equal(t, 600, summary.TotalCalories)
	assert.Equal(t, 50.0, summary.ProteinG)
	assert.Equal(t, 36.0, summary.CarbsG)
	assert.Equal(t, 19.0, summary.FatG)
	assert.Equal(t, 2, summary.MealCount)
	assert.Equal(t, "14:00", summary.LastMealTime)

	require.Len(t, summary.Meals, 2)
	assert.Equal(t, "08:00", summary.Meals[0].Time)
	assert.Equal(t, "14:00", summary.Meals[1].Time)
}

func TestDailySummaryEmptyDay(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)

	summary := ledger.DailySummary(1, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, 0, summary.TotalCalories)
	assert.Equal(t, 0, summary.MealCount)
	assert.Empty(t, summary.LastMealTime)
	assert.NotNil(t, summary.Meals)
	assert.Empty(t, summary.Meals)
}

func TestWeeklySummaryMondayStart(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)

	// Wednesday 2026-03-11; its week runs from Monday 2026-03-09.
	now := time.Date(2026, 3, 11, 18, 0, 0, 0, time.UTC)

	_, err := ledger.recordAt(1, time.Date(2026, 3, 9, 13, 0, 0, 0, time.UTC), "arroz (80%)", 400, 10, 80, 3, "")
	require.NoError(t, err)
	_, err = ledger.recordAt(1, time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC), "pan (80%)", 200, 6, 30, 2, "")
	require.NoError(t, err)
	_, err = ledger.recordAt(1, time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC), "huevo (90%)", 150, 12, 1, 10, "")
	require.NoError(t, err)

	// Previous Sunday falls outside the window.
	_, err = ledger.recordAt(1, time.Date(2026, 3, 8, 13, 0, 0, 0, time.UTC), "pizza (90%)", 800, 30, 90, 34, "")
	require.NoError(t, err)

	summary := ledger.WeeklySummary(1, now)
	assert.Equal(t, "2026-03-09", summary.WeekStart)
	assert.Equal(t, 750, summary.TotalCalories)
	assert.Equal(t, 3, summary.TotalMeals)

	require.Len(t, summary.DailyBreakdown, 2)
	assert.Equal(t, DayTotal{Date: "2026-03-09", Calories: 600, Meals: 2}, summary.DailyBreakdown[0])
	assert.Equal(t, DayTotal{Date: "2026-03-11", Calories: 150, Meals: 1}, summary.DailyBreakdown[1])
}

func TestWeekdayOffset(t *testing.T) {
	monday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		assert.Equal(t, i, weekdayOffset(monday.AddDate(0, 0, i)))
	}
}

func TestDeleteAll(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)

	for i := 0; i < 3; i++ {
		_, err := ledger.Record(1, "pan (80%)", 200, 6, 30, 2, "")
		require.NoError(t, err)
	}
	_, err := ledger.Record(2, "pan (80%)", 200, 6, 30, 2, "")
	require.NoError(t, err)

	deleted, err := ledger.DeleteAll(1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	// The other user's data survives.
	other := ledger.DailySummary(2, time.Now())
	assert.Equal(t, 1, other.MealCount)
}
