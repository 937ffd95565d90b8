package coach

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/TradeCoach/models"
)

// templateFields carries the analysis values pre-rendered for interpolation.
// Empty lists join to empty strings so every template renders cleanly.
type templateFields struct {
	WinRate     string
	AvgPnL      string
	Strategies  string
	Strengths   string
	Weaknesses  string
	Suggestions string
}

func buildFields(a models.TradeAnalysisResult) templateFields {
	return templateFields{
		WinRate:     fmt.Sprintf("%.1f%%", a.WinRate*100),
		AvgPnL:      fmt.Sprintf("$%.2f", a.AvgProfitLoss),
		Strategies:  strings.Join(a.Strategies, ", "),
		Strengths:   strings.Join(a.Strengths, ", "),
		Weaknesses:  strings.Join(a.Weaknesses, ", "),
		Suggestions: strings.Join(a.Suggestions, ", "),
	}
}

var templates = map[Category][]func(f templateFields) string{
	CategoryWinRate: {
		func(f templateFields) string {
			return fmt.Sprintf("Your win rate is %s. Winning more often starts with reviewing the trades you lost.", f.WinRate)
		},
		func(f templateFields) string {
			return fmt.Sprintf("Right now you close %s of your trades in profit, with an average P&L of %s per trade.", f.WinRate, f.AvgPnL)
		},
		func(f templateFields) string {
			return fmt.Sprintf("You win %s of your recorded trades. Keep the journal up to date so we can track how that moves.", f.WinRate)
		},
	},
	CategoryImprovement: {
		func(f templateFields) string {
			return fmt.Sprintf("The fastest gains usually come from your suggestions list: %s", f.Suggestions)
		},
		func(f templateFields) string {
			return fmt.Sprintf("Your numbers say %s win rate and %s average P&L. Start by cutting the setups that produce your worst losses.", f.WinRate, f.AvgPnL)
		},
		func(f templateFields) string {
			return fmt.Sprintf("To get better, work on these areas first: %s", f.Weaknesses)
		},
	},
	CategoryStrengths: {
		func(f templateFields) string {
			return fmt.Sprintf("Your strengths so far: %s", f.Strengths)
		},
		func(f templateFields) string {
			return fmt.Sprintf("You're doing well here: %s. Lean on that while you work on the rest.", f.Strengths)
		},
		func(f templateFields) string {
			return fmt.Sprintf("With a win rate of %s, your standout strengths are: %s", f.WinRate, f.Strengths)
		},
	},
	CategoryDefault: {
		func(f templateFields) string {
			return fmt.Sprintf("Here's where you stand: %s win rate, %s average P&L. Suggestions: %s", f.WinRate, f.AvgPnL, f.Suggestions)
		},
		func(f templateFields) string {
			return fmt.Sprintf("Based on your trading history I'd focus on: %s", f.Suggestions)
		},
		func(f templateFields) string {
			return fmt.Sprintf("You've recorded these strategies: %s. Win rate %s. Keep the notes coming, they sharpen the analysis.", f.Strategies, f.WinRate)
		},
	},
}

// TemplateResponder picks a canned reply for the message's category
// uniformly at random.
type TemplateResponder struct {
	mu     sync.Mutex
	rng    *rand.Rand
	logger zerolog.Logger
}

// NewTemplateResponder creates a template responder. A nil source gets a
// time-seeded one; tests inject a fixed source.
func NewTemplateResponder(src rand.Source) *TemplateResponder {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &TemplateResponder{
		rng:    rand.New(src),
		logger: log.With().Str("component", "template_responder").Logger(),
	}
}

// Respond implements models.Responder. It always returns a string.
func (r *TemplateResponder) Respond(_ context.Context, userMessage string, analysis models.TradeAnalysisResult) string {
	category := Classify(userMessage)
	options := templates[category]
	fields := buildFields(analysis)

	// rand.Rand is not safe for concurrent use.
	r.mu.Lock()
	pick := r.rng.Intn(len(options))
	r.mu.Unlock()

	r.logger.Debug().Str("category", string(category)).Int("template", pick).Msg("Selected response template")
	return options[pick](fields)
}
