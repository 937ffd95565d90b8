package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/TradeCoach/models"
)

// Load initializes configuration from environment variables
func Load() (*models.Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	var cfg models.Config

	cfg.Port = getEnvWithDefault("PORT", "8000")
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")
	cfg.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", 30)
	cfg.SupabaseURL = os.Getenv("SUPABASE_URL")
	cfg.SupabaseServiceKey = os.Getenv("SUPABASE_SERVICE_KEY")
	cfg.TradeSource = getEnvWithDefault("TRADE_SOURCE", "rest")
	cfg.CoachMode = getEnvWithDefault("COACH_MODE", "template")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.CoachModel = getEnvWithDefault("COACH_MODEL", "gpt-3.5-turbo-instruct")
	cfg.CoachMaxTokens = getEnvIntWithDefault("COACH_MAX_TOKENS", 150)

	return &cfg, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
