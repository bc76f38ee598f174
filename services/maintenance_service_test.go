package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fperezb/diet-agent-telegram/models"
)

func newMaintenanceFixture(t *testing.T) (*MaintenanceService, *GoalService, *LedgerService) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)
	return NewMaintenanceService(db), NewGoalService(db, ledger), ledger
}

func TestPurgeRemovesOldMealsAndOrphanConfigs(t *testing.T) {
	maint, goals, ledger := newMaintenanceFixture(t)
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

	// User 1: one stale meal, one recent meal. The goal config must survive.
	_, err := ledger.recordAt(1, time.Date(2026, 1, 10, 13, 0, 0, 0, time.UTC), "arroz (80%)", 400, 10, 80, 3, "")
	require.NoError(t, err)
	_, err = ledger.recordAt(1, time.Date(2026, 5, 10, 13, 0, 0, 0, time.UTC), "pollo (95%)", 300, 40, 0, 8, "")
	require.NoError(t, err)
	require.NoError(t, goals.SetGoal(1, 2000, models.WeightObjectiveMaintain))

	// User 2: only stale meals. The goal config becomes an orphan.
	_, err = ledger.recordAt(2, time.Date(2025, 12, 20, 13, 0, 0, 0, time.UTC), "pan (80%)", 200, 6, 30, 2, "")
	require.NoError(t, err)
	require.NoError(t, goals.SetGoal(2, 1800, models.WeightObjectiveLose))

	res, err := maint.purgeAt(3, now)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", res.CutoffDate)
	assert.Equal(t, int64(2), res.MealsDeleted)
	assert.Equal(t, int64(1), res.ConfigsDeleted)
	assert.Equal(t, 2, res.AffectedUsers)

	g1, err := goals.GetGoal(1)
	require.NoError(t, err)
	assert.NotNil(t, g1)
	g2, err := goals.GetGoal(2)
	require.NoError(t, err)
	assert.Nil(t, g2)
}

func TestPurgeIsIdempotent(t *testing.T) {
	maint, _, ledger := newMaintenanceFixture(t)
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

	_, err := ledger.recordAt(1, time.Date(2026, 1, 10, 13, 0, 0, 0, time.UTC), "arroz (80%)", 400, 10, 80, 3, "")
	require.NoError(t, err)

	first, err := maint.purgeAt(3, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.MealsDeleted)

	statsBefore, err := maint.Stats()
	require.NoError(t, err)

	second, err := maint.purgeAt(3, now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), second.MealsDeleted)
	assert.Equal(t, int64(0), second.ConfigsDeleted)
	assert.Equal(t, 0, second.AffectedUsers)

	statsAfter, err := maint.Stats()
	require.NoError(t, err)
	assert.Equal(t, statsBefore, statsAfter)
}

func TestPurgeCutoffCrossesYearBoundary(t *testing.T) {
	maint, _, _ := newMaintenanceFixture(t)

	res, err := maint.purgeAt(3, time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2025-11-01", res.CutoffDate)
}

func TestPurgeDefaultsNonPositiveWindow(t *testing.T) {
	maint, _, ledger := newMaintenanceFixture(t)
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

	// A month inside the default window must survive a zero-month request.
	_, err := ledger.recordAt(1, time.Date(2026, 5, 10, 13, 0, 0, 0, time.UTC), "arroz (80%)", 400, 10, 80, 3, "")
	require.NoError(t, err)

	res, err := maint.purgeAt(0, now)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", res.CutoffDate)
	assert.Equal(t, int64(0), res.MealsDeleted)
}

func TestStats(t *testing.T) {
	maint, goals, ledger := newMaintenanceFixture(t)

	_, err := ledger.recordAt(1, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), "pan (80%)", 200, 6, 30, 2, "")
	require.NoError(t, err)
	_, err = ledger.recordAt(1, time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC), "pan (80%)", 200, 6, 30, 2, "")
	require.NoError(t, err)
	_, err = ledger.recordAt(2, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), "pan (80%)", 200, 6, 30, 2, "")
	require.NoError(t, err)
	require.NoError(t, goals.SetGoal(1, 2000, models.WeightObjectiveMaintain))

	stats, err := maint.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalMeals)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalConfigs)
	assert.Equal(t, "2026-03-01", stats.OldestRecord)
	assert.Equal(t, "2026-03-04", stats.NewestRecord)
}

func TestStatsEmptyDatabase(t *testing.T) {
	maint, _, _ := newMaintenanceFixture(t)

	stats, err := maint.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalMeals)
	assert.Empty(t, stats.OldestRecord)
	assert.Empty(t, stats.NewestRecord)
}
