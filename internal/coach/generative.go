package coach

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/TradeCoach/models"
)

// adviceMarker separates the instruction part of the prompt from the text
// the backend generates. Backends that echo the prompt are handled by
// taking everything after the last marker.
const adviceMarker = "Your helpful advice:"

const (
	// FallbackUnavailable is returned when the generation backend fails.
	FallbackUnavailable = "I'm having trouble analyzing your trades right now. Please try again later."
	// FallbackGeneric is returned when generation succeeds but produces
	// nothing usable.
	FallbackGeneric = "Based on your trading performance, I recommend focusing on consistency and keeping detailed trade notes to identify patterns."
)

// minAdviceLen is the shortest generated reply worth forwarding.
const minAdviceLen = 10

// GenerativeResponder produces coaching replies through a text-generation
// backend. Its Respond contract is non-throwing: every internal failure
// turns into a fixed fallback string.
type GenerativeResponder struct {
	generator models.Generator
	maxTokens int
	logger    zerolog.Logger
}

// NewGenerativeResponder creates a generative responder. The generator may
// be nil (backend failed to initialize); responses then fall back.
func NewGenerativeResponder(generator models.Generator, maxTokens int) *GenerativeResponder {
	if maxTokens <= 0 {
		maxTokens = 150
	}
	return &GenerativeResponder{
		generator: generator,
		maxTokens: maxTokens,
		logger:    log.With().Str("component", "generative_responder").Logger(),
	}
}

// BuildPrompt renders the fixed coaching prompt from the analysis and the
// user's question.
func BuildPrompt(userMessage string, a models.TradeAnalysisResult) string {
	strategies := strings.Join(a.Strategies, ", ")
	if strategies == "" {
		strategies = "None recorded"
	}
	strengths := strings.Join(a.Strengths, ", ")
	if strengths == "" {
		strengths = "None identified"
	}
	weaknesses := strings.Join(a.Weaknesses, ", ")
	if weaknesses == "" {
		weaknesses = "None identified"
	}

	var sb strings.Builder
	sb.WriteString("You are a professional trading coach giving advice to a trader.\n")
	sb.WriteString("The trader's performance:\n")
	sb.WriteString(fmt.Sprintf("- Win rate: %.1f%%\n", a.WinRate*100))
	sb.WriteString(fmt.Sprintf("- Average P&L: $%.2f\n", a.AvgProfitLoss))
	sb.WriteString(fmt.Sprintf("- Strategies used: %s\n", strategies))
	sb.WriteString(fmt.Sprintf("- Strengths: %s\n", strengths))
	sb.WriteString(fmt.Sprintf("- Weaknesses: %s\n", weaknesses))
	sb.WriteString(fmt.Sprintf("\nThe trader asks: %q\n", userMessage))
	sb.WriteString("\n" + adviceMarker + "\n")
	return sb.String()
}

// Respond implements models.Responder. It never propagates a backend
// failure to the caller.
func (r *GenerativeResponder) Respond(ctx context.Context, userMessage string, analysis models.TradeAnalysisResult) string {
	if r.generator == nil {
		return FallbackUnavailable
	}

	prompt := BuildPrompt(userMessage, analysis)

	text, err := r.generator.Generate(ctx, prompt, r.maxTokens)
	if err != nil {
		r.logger.Error().Err(err).Msg("Error generating response")
		return FallbackUnavailable
	}

	advice := text
	if idx := strings.LastIndex(text, adviceMarker); idx >= 0 {
		advice = text[idx+len(adviceMarker):]
	}
	advice = strings.TrimSpace(advice)

	if len(advice) < minAdviceLen {
		return FallbackGeneric
	}
	return advice
}
