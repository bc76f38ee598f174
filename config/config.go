package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/fperezb/diet-agent-telegram/models"
)

// Config is the full process configuration, read once at startup.
type Config struct {
	Port            string
	DatabaseDSN     string
	BotToken        string
	WebhookURL      string
	AllowedUserIDs  map[int64]bool // empty means open to everyone
	OpenAIKey       string
	AWSRegion       string
	S3Bucket        string
	AdminToken      string
	RetentionMonths int
}

// Load reads .env (when present) and the environment. Only the bot token is
// hard-required; everything else has a default or disables its feature.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file, using environment")
	}

	cfg := &Config{
		Port:            getenv("PORT", "8080"),
		BotToken:        os.Getenv("TELEGRAM_BOT_TOKEN"),
		WebhookURL:      os.Getenv("WEBHOOK_URL"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		AWSRegion:       os.Getenv("AWS_REGION"),
		S3Bucket:        os.Getenv("S3_BUCKET"),
		AdminToken:      os.Getenv("ADMIN_TOKEN"),
		RetentionMonths: getenvInt("RETENTION_MONTHS", 3),
		AllowedUserIDs:  parseAllowedUsers(os.Getenv("ALLOWED_USER_IDS")),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN not set")
	}

	cfg.DatabaseDSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		getenv("DB_HOST", "localhost"),
		getenv("DB_USER", "diet"),
		os.Getenv("DB_PASSWORD"),
		getenv("DB_NAME", "diet_agent"),
		getenv("DB_PORT", "5432"),
	)

	if len(cfg.AllowedUserIDs) == 0 {
		log.Println("config: ALLOWED_USER_IDS not set, bot is open to all users")
	}
	return cfg, nil
}

// InitDB opens the Postgres connection.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate runs the schema migration once at startup, over the typed models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.MealRecord{},
		&models.UserGoalConfig{},
		&models.Alert{},
	)
}

func parseAllowedUsers(raw string) map[int64]bool {
	allowed := make(map[int64]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			log.Printf("config: skipping bad ALLOWED_USER_IDS entry %q", part)
			continue
		}
		allowed[id] = true
	}
	return allowed
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: bad %s value %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
