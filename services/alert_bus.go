package services

import (
	"log"

	"gorm.io/gorm"

	"github.com/fperezb/diet-agent-telegram/models"
)

// AlertService persists goal-tracking alerts and fans them out to any live
// websocket subscribers. Emitting is best-effort; a failed alert never
// interferes with the meal that triggered it.
type AlertService struct {
	db  *gorm.DB
	hub *RealtimeHub
}

func NewAlertService(db *gorm.DB, hub *RealtimeHub) *AlertService {
	return &AlertService{db: db, hub: hub}
}

// Emit stores the alert and broadcasts it.
func (s *AlertService) Emit(userID int64, typ, message string) {
	a := &models.Alert{UserID: userID, Type: typ, Message: message}
	if err := s.db.Create(a).Error; err != nil {
		log.Printf("alerts: persist failed for user %d: %v", userID, err)
		return
	}

	if s.hub != nil {
		s.hub.Broadcast(userID, map[string]any{
			"kind":  "alert.created",
			"alert": a,
		})
	}
}

// Recent returns the user's latest alerts, newest first.
func (s *AlertService) Recent(userID int64, limit int) ([]models.Alert, error) {
	if limit <= 0 {
		limit = 10
	}
	var alerts []models.Alert
	err := s.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&alerts).Error
	return alerts, err
}
