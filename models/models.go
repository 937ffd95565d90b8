package models

import (
	"time"
)

type Config struct {
	Port               string `env:"PORT" envDefault:"8000"`
	LogLevel           string `env:"LOG_LEVEL" envDefault:"info"`
	RequestTimeout     int    `env:"REQUEST_TIMEOUT" envDefault:"30"` // seconds
	SupabaseURL        string `env:"SUPABASE_URL" envDefault:"-"`
	SupabaseServiceKey string `env:"SUPABASE_SERVICE_KEY" envDefault:"-"`
	TradeSource        string `env:"TRADE_SOURCE" envDefault:"rest"` // rest or postgres
	CoachMode          string `env:"COACH_MODE" envDefault:"template"`
	OpenAIAPIKey       string `env:"OPENAI_API_KEY" envDefault:"-"`
	CoachModel         string `env:"COACH_MODEL" envDefault:"gpt-3.5-turbo-instruct"`
	CoachMaxTokens     int    `env:"COACH_MAX_TOKENS" envDefault:"150"`
}

// Trade represents a single journal entry fetched from the trades store.
// Only pnl, trade_type and notes feed the analysis; the rest travels along
// for logging and the Telegram views.
type Trade struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	Symbol    string    `json:"symbol,omitempty"`
	PnL       float64   `json:"pnl"`
	TradeType string    `json:"trade_type,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// TradeAnalysisResult holds the aggregate statistics derived from a user's
// trade history. It is fully rebuilt on every request.
type TradeAnalysisResult struct {
	WinRate       float64  `json:"win_rate"`
	AvgProfitLoss float64  `json:"avg_profit_loss"`
	Strategies    []string `json:"strategies"`
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Suggestions   []string `json:"suggestions"`
}

// Message is a single role-tagged chat message ("user" or "assistant").
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages []Message `json:"messages"`
	UserID   string    `json:"user_id"`
}

type ChatResponse struct {
	Response string               `json:"response"`
	Analysis *TradeAnalysisResult `json:"analysis,omitempty"`
}
