package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/TradeCoach/internal/analyze"
	"github.com/Alias1177/TradeCoach/internal/api/supabase"
	"github.com/Alias1177/TradeCoach/internal/coach"
	"github.com/Alias1177/TradeCoach/internal/config"
	"github.com/Alias1177/TradeCoach/internal/database"
	"github.com/Alias1177/TradeCoach/models"
)

const welcomeMessage = `Welcome to Trade Coach!

Send /analysis to get the numbers on your recorded trades,
or just ask me a question like "What's my win rate?".`

func init() {
	// Load .env file
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

	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		log.Fatal().Msg("TELEGRAM_BOT_TOKEN not set in environment")
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
	}
	log.Info().Str("username", bot.Self.UserName).Msg("Authorized on Telegram")

	source := buildTradeSource(cfg)
	responder := buildResponder(cfg)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := bot.GetUpdatesChan(updateConfig)

	for update := range updates {
		if update.Message == nil || update.Message.Text == "" {
			continue
		}
		handleMessage(bot, source, responder, cfg, update.Message)
	}
}

func handleMessage(bot *tgbotapi.BotAPI, source models.TradeSource, responder models.Responder, cfg *models.Config, msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.RequestTimeout)*time.Second)
	defer cancel()

	userID := strconv.FormatInt(msg.From.ID, 10)
	var reply string

	switch {
	case msg.IsCommand() && msg.Command() == "start":
		reply = welcomeMessage

	case msg.IsCommand() && msg.Command() == "analysis":
		trades, err := source.GetTrades(ctx, userID)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Error fetching trades")
			reply = "Couldn't fetch your trades right now. Please try again later."
			break
		}
		reply = formatAnalysis(analyze.Trades(trades))

	case msg.IsCommand():
		reply = "Unknown command. Use /start or /analysis, or just ask a question."

	default:
		trades, err := source.GetTrades(ctx, userID)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Error fetching trades")
			reply = "Couldn't fetch your trades right now. Please try again later."
			break
		}
		reply = responder.Respond(ctx, msg.Text, analyze.Trades(trades))
	}

	if _, err := bot.Send(tgbotapi.NewMessage(msg.Chat.ID, reply)); err != nil {
		log.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("Failed to send message")
	}
}

// formatAnalysis renders the analysis as a plain-text Telegram message.
func formatAnalysis(a models.TradeAnalysisResult) string {
	var sb strings.Builder
	sb.WriteString("📊 Your trading analysis\n\n")
	sb.WriteString(fmt.Sprintf("Win rate: %.1f%%\n", a.WinRate*100))
	sb.WriteString(fmt.Sprintf("Average P&L: $%.2f\n", a.AvgProfitLoss))
	if len(a.Strategies) > 0 {
		sb.WriteString("Strategies: " + strings.Join(a.Strategies, ", ") + "\n")
	}
	if len(a.Strengths) > 0 {
		sb.WriteString("\n✅ Strengths:\n")
		for _, s := range a.Strengths {
			sb.WriteString("• " + s + "\n")
		}
	}
	if len(a.Weaknesses) > 0 {
		sb.WriteString("\n⚠️ Weaknesses:\n")
		for _, w := range a.Weaknesses {
			sb.WriteString("• " + w + "\n")
		}
	}
	if len(a.Suggestions) > 0 {
		sb.WriteString("\n💡 Suggestions:\n")
		for _, s := range a.Suggestions {
			sb.WriteString("• " + s + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

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

	return supabase.NewClient(supabase.ClientOptions{
		URL:            cfg.SupabaseURL,
		ServiceKey:     cfg.SupabaseServiceKey,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
	})
}

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
