package coach

import (
	"strings"
)

// Category is the response bucket a user message falls into.
type Category string

const (
	CategoryWinRate     Category = "win_rate"
	CategoryImprovement Category = "improvement"
	CategoryStrengths   Category = "strengths"
	CategoryDefault     Category = "default"
)

// Keyword groups checked in priority order; the first group with a hit wins.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryWinRate, []string{"win rate", "winning", "success rate"}},
	{CategoryImprovement, []string{"improve", "better", "enhance", "increase", "boost"}},
	{CategoryStrengths, []string{"strength", "good at", "excel", "positive"}},
}

// Classify maps a user message onto a response category. Matching is
// case-insensitive substring search.
func Classify(message string) Category {
	lower := strings.ToLower(message)
	for _, group := range categoryKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(lower, keyword) {
				return group.category
			}
		}
	}
	return CategoryDefault
}
