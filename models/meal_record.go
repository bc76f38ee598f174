package models

import "time"

// MealRecord is one logged eating event. Rows are append-only: they are
// never updated in place, only bulk-deleted by the retention purge or a
// user-initiated wipe.
type MealRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     int64     `gorm:"index:idx_user_date;not null" json:"user_id"`
	Date       time.Time `gorm:"index:idx_user_date;not null" json:"date"` // truncated to YYYY-MM-DD
	OccurredAt time.Time `gorm:"not null" json:"occurred_at"`

	// Denormalized text summary of the identified foods ("pollo (95%), arroz (80%)").
	// Never machine-parsed after write.
	FoodsSummary string `gorm:"type:text;not null" json:"foods_summary"`

	Calories int     `gorm:"not null" json:"calories"`
	ProteinG float64 `gorm:"default:0" json:"protein_g"`
	CarbsG   float64 `gorm:"default:0" json:"carbs_g"`
	FatG     float64 `gorm:"default:0" json:"fat_g"`

	// Opaque reference to the source image (S3 key or Telegram file id).
	PhotoReference string `gorm:"size:512" json:"photo_reference,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
