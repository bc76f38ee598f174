package models

import "time"

// Alert is a persisted goal-tracking notification, also pushed to any
// websocket subscribers at the moment it is created.
type Alert struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"index" json:"user_id"`
	Type      string    `gorm:"size:20" json:"type"` // "warning" | "exceed"
	Message   string    `gorm:"type:text" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
