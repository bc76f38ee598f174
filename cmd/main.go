package main

import (
	"context"
	"log"

	"github.com/fperezb/diet-agent-telegram/bot"
	"github.com/fperezb/diet-agent-telegram/config"
	"github.com/fperezb/diet-agent-telegram/controllers"
	"github.com/fperezb/diet-agent-telegram/routes"
	"github.com/fperezb/diet-agent-telegram/services"
	"github.com/fperezb/diet-agent-telegram/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := config.InitDB(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()

	// Core services.
	hub := services.NewRealtimeHub()
	alerts := services.NewAlertService(db, hub)
	nutrition := services.NewNutritionService()
	ledger := services.NewLedgerService(db)
	goals := services.NewGoalService(db, ledger)
	reports := services.NewReportService(db, goals)
	maint := services.NewMaintenanceService(db)
	tracker := services.NewTrackerService(nutrition, ledger, goals, alerts)

	// Retention runs once at boot; /admin/purge re-triggers it on demand.
	if _, err := maint.Purge(cfg.RetentionMonths); err != nil {
		log.Printf("startup purge failed: %v", err)
	}

	// Identification backends. Rekognition is optional; without AWS config
	// the vision adapter simply has no fallback.
	var rek *services.RekognitionService
	if cfg.AWSRegion != "" {
		rek, err = services.NewRekognitionService(ctx)
		if err != nil {
			log.Printf("rekognition unavailable: %v", err)
			rek = nil
		}
	}
	vision := services.NewVisionService(cfg.OpenAIKey, rek)

	photos, err := utils.NewPhotoArchive(ctx, cfg.AWSRegion, cfg.S3Bucket)
	if err != nil {
		log.Printf("photo archive unavailable: %v", err)
	}

	b, err := bot.New(cfg.BotToken, tracker, goals, reports, vision, photos, cfg.AllowedUserIDs)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	if cfg.WebhookURL != "" {
		if err := b.SetWebhook(cfg.WebhookURL); err != nil {
			log.Fatalf("webhook setup: %v", err)
		}
		log.Printf("bot: webhook mode at %s/webhook", cfg.WebhookURL)
	} else {
		go b.RunPolling(ctx)
	}

	r := routes.SetupRouter(
		controllers.NewWebhookController(b),
		controllers.NewMaintenanceController(maint, cfg.RetentionMonths),
		controllers.NewRealtimeController(hub),
		cfg.AdminToken,
	)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
