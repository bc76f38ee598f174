package services

import (
	"log"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/fperezb/diet-agent-telegram/models"
)

// LedgerService owns MealRecord storage: append, per-day read-back, wipe.
type LedgerService struct {
	db *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

// LoggedMeal is one ledger row as rendered in a daily summary.
type LoggedMeal struct {
	Time     string `json:"time"` // HH:MM
	Foods    string `json:"foods"`
	Calories int    `json:"calories"`
}

// DailySummary aggregates one user's meals for one calendar date.
// It is always derived on read, never stored.
type DailySummary struct {
	Date          string       `json:"date"` // YYYY-MM-DD
	TotalCalories int          `json:"total_calories"`
	ProteinG      float64      `json:"protein_g"`
	CarbsG        float64      `json:"carbs_g"`
	FatG          float64      `json:"fat_g"`
	MealCount     int          `json:"meal_count"`
	LastMealTime  string       `json:"last_meal_time,omitempty"`
	Meals         []LoggedMeal `json:"meals"`
}

// Record appends one meal, timestamped at insertion time, and returns the
// assigned id. Nutrient ranges are the caller's responsibility.
func (s *LedgerService) Record(userID int64, foodsSummary string, calories int, proteinG, carbsG, fatG float64, photoRef string) (uint, error) {
	return s.recordAt(userID, time.Now(), foodsSummary, calories, proteinG, carbsG, fatG, photoRef)
}

func (s *LedgerService) recordAt(userID int64, at time.Time, foodsSummary string, calories int, proteinG, carbsG, fatG float64, photoRef string) (uint, error) {
	rec := &models.MealRecord{
		UserID:         userID,
		Date:           dayStart(at),
		OccurredAt:     at,
		FoodsSummary:   foodsSummary,
		Calories:       calories,
		ProteinG:       proteinG,
		CarbsG:         carbsG,
		FatG:           fatG,
		PhotoReference: photoRef,
	}
	if err := s.db.Create(rec).Error; err != nil {
		return 0, err
	}
	log.Printf("ledger: user %d logged %d kcal (meal %d)", userID, calories, rec.ID)
	return rec.ID, nil
}

// DailySummary scans the user's records for one calendar date, in
// chronological order. A storage failure or an empty day both come back as a
// well-formed zero summary; the daily read path never errors out.
func (s *LedgerService) DailySummary(userID int64, date time.Time) *DailySummary {
	summary := &DailySummary{
		Date:  dayStart(date).Format("2006-01-02"),
		Meals: []LoggedMeal{},
	}

	var records []models.MealRecord
	err := s.db.
		Where("user_id = ? AND date = ?", userID, dayStart(date)).
		Order("occurred_at ASC").
		Find(&records).Error
	if err != nil {
		log.Printf("ledger: daily summary read failed for user %d: %v", userID, err)
		return summary
	}

	for _, r := range records {
		summary.TotalCalories += r.Calories
		summary.ProteinG += r.ProteinG
		summary.CarbsG += r.CarbsG
		summary.FatG += r.FatG
		summary.Meals = append(summary.Meals, LoggedMeal{
			Time:     r.OccurredAt.Format("15:04"),
			Foods:    r.FoodsSummary,
			Calories: r.Calories,
		})
	}
	summary.MealCount = len(records)
	if len(records) > 0 {
		summary.LastMealTime = records[len(records)-1].OccurredAt.Format("15:04")
	}
	return summary
}

// WeeklySummary groups the current week's records (Monday start) per day.
type WeeklySummary struct {
	WeekStart      string     `json:"week_start"`
	TotalCalories  int        `json:"total_calories"`
	TotalMeals     int        `json:"total_meals"`
	DailyBreakdown []DayTotal `json:"daily_breakdown"`
}

// DayTotal is one aggregated day: date, summed calories, meal count.
type DayTotal struct {
	Date     string `json:"date"`
	Calories int    `json:"calories"`
	Meals    int    `json:"meals"`
}

// WeeklySummary aggregates the week containing now, from Monday through
// today. Degrades to an empty summary on storage failure.
func (s *LedgerService) WeeklySummary(userID int64, now time.Time) *WeeklySummary {
	weekStart := dayStart(now).AddDate(0, 0, -weekdayOffset(now))
	summary := &WeeklySummary{
		WeekStart:      weekStart.Format("2006-01-02"),
		DailyBreakdown: []DayTotal{},
	}

	var records []models.MealRecord
	err := s.db.
		Where("user_id = ? AND date >= ?", userID, weekStart).
		Order("date ASC").
		Find(&records).Error
	if err != nil {
		log.Printf("ledger: weekly summary read failed for user %d: %v", userID, err)
		return summary
	}

	for _, day := range groupByDay(records) {
		summary.TotalCalories += day.Calories
		summary.TotalMeals += day.Meals
		summary.DailyBreakdown = append(summary.DailyBreakdown, day)
	}
	return summary
}

// groupByDay folds records into per-date totals, ordered by date.
func groupByDay(records []models.MealRecord) []DayTotal {
	idx := map[string]*DayTotal{}
	var order []string
	for _, r := range records {
		key := r.Date.Format("2006-01-02")
		day, ok := idx[key]
		if !ok {
			day = &DayTotal{Date: key}
			idx[key] = day
			order = append(order, key)
		}
		day.Calories += r.Calories
		day.Meals++
	}
	sort.Strings(order)

	out := make([]DayTotal, 0, len(order))
	for _, key := range order {
		out = append(out, *idx[key])
	}
	return out
}

// DeleteAll wipes every record for the user and reports how many went.
func (s *LedgerService) DeleteAll(userID int64) (int64, error) {
	res := s.db.Where("user_id = ?", userID).Delete(&models.MealRecord{})
	if res.Error != nil {
		return 0, res.Error
	}
	log.Printf("ledger: deleted %d records for user %d", res.RowsAffected, userID)
	return res.RowsAffected, nil
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// weekdayOffset counts days since Monday.
func weekdayOffset(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 6 // Sunday
	}
	return wd - 1
}
