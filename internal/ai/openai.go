package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
)

const maxOutputTokens int64 = 1024

// OpenAIGenerator calls OpenAI's Responses API to produce stories.
type OpenAIGenerator struct {
	client openai.Client
	model  openai.ChatModel
}

func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	m := openai.ChatModelGPT5Mini2025_08_07
	if model != "" {
		m = openai.ChatModel(model)
	}
	return &OpenAIGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  m,
	}
}

// Generate makes one completion call. An error or empty output surfaces
// as ErrGenerationFailed; no partial result is ever returned.
func (g *OpenAIGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	resp, err := g.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:           g.model,
		MaxOutputTokens: openai.Int(maxOutputTokens),
		Instructions:    openai.String(system),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(user),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	text := strings.TrimSpace(resp.OutputText())
	if text == "" {
		return "", fmt.Errorf("%w: empty output (status = %s)", ErrGenerationFailed, resp.Status)
	}

	return text, nil
}
