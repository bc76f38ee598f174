package services

import (
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/fperezb/diet-agent-telegram/models"
)

// DefaultRetentionMonths keeps the current month plus this many before it.
const DefaultRetentionMonths = 3

// MaintenanceService purges ledger data older than the retention window and
// reports aggregate database statistics. A mutex keeps purges from
// overlapping; deletes are idempotent so overlap would only be wasteful.
type MaintenanceService struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewMaintenanceService(db *gorm.DB) *MaintenanceService {
	return &MaintenanceService{db: db}
}

// PurgeResult describes one retention run.
type PurgeResult struct {
	CutoffDate     string `json:"cutoff_date"`
	MealsDeleted   int64  `json:"meals_deleted"`
	ConfigsDeleted int64  `json:"configs_deleted"`
	AffectedUsers  int    `json:"affected_users"`
}

// DatabaseStats is the operational snapshot exposed at /admin/stats.
type DatabaseStats struct {
	TotalMeals   int64  `json:"total_meals"`
	TotalUsers   int64  `json:"total_users"`
	TotalConfigs int64  `json:"total_configs"`
	OldestRecord string `json:"oldest_record,omitempty"`
	NewestRecord string `json:"newest_record,omitempty"`
}

// Purge deletes every meal dated strictly before the first day of the month
// monthsToKeep calendar months back, then drops goal configs for users left
// with no meals at all.
func (m *MaintenanceService) Purge(monthsToKeep int) (*PurgeResult, error) {
	return m.purgeAt(monthsToKeep, time.Now())
}

func (m *MaintenanceService) purgeAt(monthsToKeep int, now time.Time) (*PurgeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if monthsToKeep < 1 {
		monthsToKeep = DefaultRetentionMonths
	}

	// time.Date normalizes month underflow, so subtracting across the year
	// boundary lands on the right year and month.
	cutoff := time.Date(now.Year(), now.Month()-time.Month(monthsToKeep), 1, 0, 0, 0, 0, now.Location())
	result := &PurgeResult{CutoffDate: cutoff.Format("2006-01-02")}

	var affected []int64
	if err := m.db.Model(&models.MealRecord{}).
		Distinct("user_id").
		Where("date < ?", cutoff).
		Pluck("user_id", &affected).Error; err != nil {
		return nil, err
	}
	result.AffectedUsers = len(affected)

	res := m.db.Where("date < ?", cutoff).Delete(&models.MealRecord{})
	if res.Error != nil {
		return nil, res.Error
	}
	result.MealsDeleted = res.RowsAffected

	// Orphan cleanup: a goal survives as long as the user has any meal left.
	res = m.db.
		Where("user_id NOT IN (?)", m.db.Model(&models.MealRecord{}).Distinct("user_id").Select("user_id")).
		Delete(&models.UserGoalConfig{})
	if res.Error != nil {
		return nil, res.Error
	}
	result.ConfigsDeleted = res.RowsAffected

	log.Printf("maintenance: purge before %s removed %d meals, %d configs (%d users affected)",
		result.CutoffDate, result.MealsDeleted, result.ConfigsDeleted, result.AffectedUsers)
	return result, nil
}

// Stats counts meals, distinct users with meals, goal configs, and the date
// range of the ledger.
func (m *MaintenanceService) Stats() (*DatabaseStats, error) {
	stats := &DatabaseStats{}

	if err := m.db.Model(&models.MealRecord{}).Count(&stats.TotalMeals).Error; err != nil {
		return nil, err
	}
	if err := m.db.Model(&models.MealRecord{}).Distinct("user_id").Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := m.db.Model(&models.UserGoalConfig{}).Count(&stats.TotalConfigs).Error; err != nil {
		return nil, err
	}

	if stats.TotalMeals > 0 {
		var oldest, newest models.MealRecord
		if err := m.db.Order("date ASC").First(&oldest).Error; err != nil {
			return nil, err
		}
		if err := m.db.Order("date DESC").First(&newest).Error; err != nil {
			return nil, err
		}
		stats.OldestRecord = oldest.Date.Format("2006-01-02")
		stats.NewestRecord = newest.Date.Format("2006-01-02")
	}
	return stats, nil
}
