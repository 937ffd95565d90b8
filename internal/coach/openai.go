package coach

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGenerator is a models.Generator backed by the OpenAI completions API.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	logger zerolog.Logger
}

// NewOpenAIGenerator creates a new OpenAI-backed generator.
func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	return &OpenAIGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: log.With().Str("component", "openai_generator").Logger(),
	}
}

// Generate sends the prompt to the completions endpoint with a bounded
// output budget and returns the raw generated text.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := g.client.CreateCompletion(
		ctx,
		openai.CompletionRequest{
			Model:     g.model,
			Prompt:    prompt,
			MaxTokens: maxTokens,
		},
	)
	if err != nil {
		g.logger.Error().Err(err).Msg("OpenAI API error")
		return "", err
	}

	if len(resp.Choices) == 0 {
		g.logger.Warn().Msg("OpenAI returned empty choices")
		return "", nil
	}

	return resp.Choices[0].Text, nil
}
