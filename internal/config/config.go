package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	DatabaseURI   string

	// Fixed service timezone. All resolved times are interpreted in it.
	Timezone string
	Location *time.Location

	PollInterval        time.Duration // delivery sweep interval
	CreationGrace       time.Duration // tolerated past drift at creation
	OfflineGrace        time.Duration // overdue-by-more-than-this at startup means missed
	MaxDeliveryAttempts int           // consecutive failures before giving up on a reminder

	// Optional AI date resolution engine.
	AIAPIKey  string
	AIBaseURL string
	AIModel   string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional in production
	}

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		DatabaseURI:   os.Getenv("DATABASE_URI"),
		Timezone:      getEnvOrDefault("TIMEZONE", "Asia/Kolkata"),
		AIAPIKey:      os.Getenv("AI_API_KEY"),
		AIBaseURL:     getEnvOrDefault("AI_BASE_URL", "https://openrouter.ai/api/v1"),
		AIModel:       getEnvOrDefault("AI_MODEL", "openai/gpt-4o-mini"),
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	if cfg.PollInterval, err = durationEnv("POLL_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.CreationGrace, err = durationEnv("CREATION_GRACE", time.Minute); err != nil {
		return nil, err
	}
	if cfg.OfflineGrace, err = durationEnv("OFFLINE_GRACE", 2*time.Minute); err != nil {
		return nil, err
	}
	if cfg.MaxDeliveryAttempts, err = intEnv("MAX_DELIVERY_ATTEMPTS", 10); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func durationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func intEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}
