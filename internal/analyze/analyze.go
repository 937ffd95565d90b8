package analyze

import (
	"fmt"
	"strings"

	"github.com/Alias1177/TradeCoach/models"
)

// OnboardingSuggestion is the single suggestion returned for users with no
// recorded trades yet.
const OnboardingSuggestion = "Start recording your trades to get personalized analysis."

// Trades computes descriptive statistics over a user's trade history.
// Deterministic, no side effects, no I/O. The rule order below is fixed
// because it determines the order of the strength/weakness/suggestion lists.
func Trades(trades []models.Trade) models.TradeAnalysisResult {
	if len(trades) == 0 {
		return models.TradeAnalysisResult{
			WinRate:       0.0,
			AvgProfitLoss: 0.0,
			Strategies:    []string{},
			Strengths:     []string{},
			Weaknesses:    []string{},
			Suggestions:   []string{OnboardingSuggestion},
		}
	}

	wins := 0
	totalPnL := 0.0
	seen := make(map[string]struct{})
	strategies := make([]string, 0)
	noteParts := make([]string, 0, len(trades))

	for _, t := range trades {
		if t.PnL > 0 {
			wins++
		}
		totalPnL += t.PnL

		if s := strings.TrimSpace(t.TradeType); s != "" {
			if _, ok := seen[s]; !ok {
				seen[s] = struct{}{}
				strategies = append(strategies, s)
			}
		}

		if t.Notes != "" {
			noteParts = append(noteParts, t.Notes)
		}
	}

	winRate := float64(wins) / float64(len(trades))
	avgPnL := totalPnL / float64(len(trades))

	strengths := make([]string, 0, 4)
	weaknesses := make([]string, 0, 3)
	suggestions := make([]string, 0, 4)

	if winRate > 0.5 {
		strengths = append(strengths, "Above 50% win rate")
	} else {
		weaknesses = append(weaknesses, "Below 50% win rate")
		suggestions = append(suggestions, "Focus on improving your win rate by reviewing losing trades")
	}

	if avgPnL > 0 {
		strengths = append(strengths, "Positive average P&L")
	} else {
		weaknesses = append(weaknesses, "Negative average P&L")
		suggestions = append(suggestions, "Work on improving your average profit per trade")
	}

	if len(strategies) > 2 {
		strengths = append(strengths, fmt.Sprintf("Diverse trading approaches (%d different strategies)", len(strategies)))
	} else {
		suggestions = append(suggestions, "Consider exploring more trading strategies to diversify your approach")
	}

	// Substring matches, not word-boundary aware: "complaint" also counts
	// as planning evidence.
	allNotes := strings.ToLower(strings.Join(noteParts, " "))
	if allNotes != "" {
		if strings.Contains(allNotes, "emotion") || strings.Contains(allNotes, "fear") || strings.Contains(allNotes, "greed") {
			weaknesses = append(weaknesses, "Emotional trading noted in multiple trades")
			suggestions = append(suggestions, "Work on emotional discipline during trading")
		}

		if strings.Contains(allNotes, "plan") {
			strengths = append(strengths, "Evidence of trade planning in notes")
		}
	}

	return models.TradeAnalysisResult{
		WinRate:       winRate,
		AvgProfitLoss: avgPnL,
		Strategies:    strategies,
		Strengths:     strengths,
		Weaknesses:    weaknesses,
		Suggestions:   suggestions,
	}
}
