package services

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/fperezb/diet-agent-telegram/models"
)

// Per-day classification bands relative to the goal.
const (
	reportOverBand  = 1.10
	reportUnderBand = 0.90
)

// ReportService derives month-level summaries from the meal ledger.
type ReportService struct {
	db    *gorm.DB
	goals *GoalService
}

func NewReportService(db *gorm.DB, goals *GoalService) *ReportService {
	return &ReportService{db: db, goals: goals}
}

// MonthlyDay is one tracked day in the monthly breakdown. Deviation and
// percentage are nil when the user has no goal configured.
type MonthlyDay struct {
	Date           string   `json:"date"`
	Calories       int      `json:"calories"`
	Meals          int      `json:"meals"`
	Deviation      *int     `json:"deviation,omitempty"`       // signed kcal vs goal
	GoalPercentage *float64 `json:"goal_percentage,omitempty"` // calories / goal * 100
}

// MonthlySummary aggregates one user's ledger over a calendar month. For the
// current month the window is capped at today.
type MonthlySummary struct {
	Month            string  `json:"month"` // YYYY-MM
	DaysInMonth      int     `json:"days_in_month"`
	DaysTracked      int     `json:"days_tracked"`
	TotalCalories    int     `json:"total_calories"`
	TotalMeals       int     `json:"total_meals"`
	AvgDailyCalories float64 `json:"avg_daily_calories"`

	HasGoal      bool    `json:"has_goal"`
	DailyGoal    int     `json:"daily_goal,omitempty"`
	DaysOver     int     `json:"days_over"`
	DaysUnder    int     `json:"days_under"`
	DaysOnTarget int     `json:"days_on_target"`
	SuccessRate  float64 `json:"success_rate"` // on-target days / tracked days * 100

	BestDay  *DayTotal `json:"best_day,omitempty"`  // closest to goal
	WorstDay *DayTotal `json:"worst_day,omitempty"` // farthest from goal

	DailyBreakdown []MonthlyDay `json:"daily_breakdown"`
}

// Monthly reports the month containing `month` (zero value means the current
// month). Any failure degrades to a renderable empty summary.
func (s *ReportService) Monthly(userID int64, month time.Time) *MonthlySummary {
	return s.monthlyAt(userID, month, time.Now())
}

func (s *ReportService) monthlyAt(userID int64, month, now time.Time) *MonthlySummary {
	if month.IsZero() {
		month = now
	}
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, now.Location())

	// Full calendar month, capped at today when the month is the current one.
	to := from.AddDate(0, 1, -1)
	if from.Year() == now.Year() && from.Month() == now.Month() {
		to = dayStart(now)
	}

	// Calendar arithmetic, not duration division: a DST transition makes
	// the window a non-whole number of 24h days.
	summary := &MonthlySummary{
		Month:          from.Format("2006-01"),
		DaysInMonth:    to.Day(),
		DailyBreakdown: []MonthlyDay{},
	}

	var records []models.MealRecord
	err := s.db.
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date ASC").
		Find(&records).Error
	if err != nil {
		log.Printf("report: monthly aggregation failed for user %d: %v", userID, err)
		return summary
	}
	rows := groupByDay(records)

	goal, err := s.goals.GetGoal(userID)
	if err != nil {
		log.Printf("report: goal read failed for user %d: %v", userID, err)
		return summary
	}

	summary.DaysTracked = len(rows)
	for _, row := range rows {
		summary.TotalCalories += row.Calories
		summary.TotalMeals += row.Meals
	}
	if summary.DaysTracked > 0 {
		summary.AvgDailyCalories = round1(float64(summary.TotalCalories) / float64(summary.DaysTracked))
	}

	var bestDist, worstDist float64
	for _, row := range rows {
		day := MonthlyDay{
			Date:     row.Date,
			Calories: row.Calories,
			Meals:    row.Meals,
		}

		if goal != nil {
			g := float64(goal.DailyCalorieGoal)
			c := float64(row.Calories)
			switch {
			case c > g*reportOverBand:
				summary.DaysOver++
			case c < g*reportUnderBand:
				summary.DaysUnder++
			default:
				summary.DaysOnTarget++
			}

			dev := row.Calories - goal.DailyCalorieGoal
			pct := round1(c / g * 100)
			day.Deviation = &dev
			day.GoalPercentage = &pct

			dist := abs(c - g)
			if summary.BestDay == nil || dist < bestDist {
				bestDist = dist
				summary.BestDay = &DayTotal{Date: day.Date, Calories: row.Calories, Meals: row.Meals}
			}
			if summary.WorstDay == nil || dist > worstDist {
				worstDist = dist
				summary.WorstDay = &DayTotal{Date: day.Date, Calories: row.Calories, Meals: row.Meals}
			}
		}

		summary.DailyBreakdown = append(summary.DailyBreakdown, day)
	}

	if goal != nil {
		summary.HasGoal = true
		summary.DailyGoal = goal.DailyCalorieGoal
		if summary.DaysTracked > 0 {
			summary.SuccessRate = round1(float64(summary.DaysOnTarget) / float64(summary.DaysTracked) * 100)
		}
	}
	return summary
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
