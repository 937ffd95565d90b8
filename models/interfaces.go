package models

import "context"

// TradeSource fetches a user's trade history from the external store.
type TradeSource interface {
	GetTrades(ctx context.Context, userID string) ([]Trade, error)
}

// Responder turns a user message plus an analysis into a coaching reply.
// Implementations must always return a usable string and never an error
// reaching the caller.
type Responder interface {
	Respond(ctx context.Context, userMessage string, analysis TradeAnalysisResult) string
}

// Generator is a text-generation backend used by the generative responder.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}
