package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fperezb/diet-agent-telegram/services"
)

// MaintenanceController exposes the operational endpoints: database stats
// and on-demand retention purge.
type MaintenanceController struct {
	Maint            *services.MaintenanceService
	DefaultRetention int
}

func NewMaintenanceController(m *services.MaintenanceService, defaultRetention int) *MaintenanceController {
	return &MaintenanceController{Maint: m, DefaultRetention: defaultRetention}
}

func (m *MaintenanceController) Stats(c *gin.Context) {
	stats, err := m.Maint.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (m *MaintenanceController) Purge(c *gin.Context) {
	var body struct {
		Months int `json:"months"`
	}
	// Empty body means the configured default window.
	_ = c.ShouldBindJSON(&body)
	if body.Months <= 0 {
		body.Months = m.DefaultRetention
	}

	result, err := m.Maint.Purge(body.Months)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
