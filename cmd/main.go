package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/TradeCoach/internal/api"
	"github.com/Alias1177/TradeCoach/internal/api/supabase"
	"github.com/Alias1177/TradeCoach/internal/coach"
	"github.com/Alias1177/TradeCoach/internal/config"
	"github.com/Alias1177/TradeCoach/internal/database"
	"github.com/Alias1177/TradeCoach/models"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()

	source := buildTradeSource(cfg)
	responder := buildResponder(cfg)

	server := api.NewServer(":"+cfg.Port, source, responder)
	if err := server.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start API server")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}
}

// buildTradeSource wires the configured trades backend. Missing REST
// credentials are not fatal at startup; handlers surface them as server
// errors at request time.
func buildTradeSource(cfg *models.Config) models.TradeSource {
	if cfg.TradeSource == "postgres" {
		db, err := database.New(database.ConnectionParams{
			Host:     os.Getenv("DB_HOST"),
			Port:     os.Getenv("DB_PORT"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   os.Getenv("DB_NAME"),
			SSLMode:  os.Getenv("DB_SSLMODE"),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Postgres")
		}
		return db
	}

	if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
		log.Warn().Msg("Supabase credentials not set, trade fetches will fail")
	}
	return supabase.NewClient(supabase.ClientOptions{
		URL:            cfg.SupabaseURL,
		ServiceKey:     cfg.SupabaseServiceKey,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
	})
}

// buildResponder wires the configured coaching strategy. A deployment runs
// exactly one strategy; generative mode without an API key still starts and
// serves the fixed fallback reply.
func buildResponder(cfg *models.Config) models.Responder {
	if cfg.CoachMode == "generative" {
		var generator models.Generator
		if cfg.OpenAIAPIKey != "" {
			generator = coach.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.CoachModel)
		} else {
			log.Warn().Msg("OPENAI_API_KEY not set, generative responses will fall back")
		}
		return coach.NewGenerativeResponder(generator, cfg.CoachMaxTokens)
	}
	return coach.NewTemplateResponder(nil)
}
