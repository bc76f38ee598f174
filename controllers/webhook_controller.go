package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/fperezb/diet-agent-telegram/bot"
)

// WebhookController receives Telegram updates over HTTP when the bot runs in
// webhook mode instead of long polling.
type WebhookController struct {
	Bot *bot.Bot
}

func NewWebhookController(b *bot.Bot) *WebhookController {
	return &WebhookController{Bot: b}
}

func (w *WebhookController) Handle(c *gin.Context) {
	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	w.Bot.ProcessUpdate(c.Request.Context(), update)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "diet-agent",
	})
}
