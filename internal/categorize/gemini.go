package categorize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// GeminiClassifier asks a Gemini model to pick one id from a closed list.
type GeminiClassifier struct {
	client *genai.Client
	model  string
}

// NewGeminiClassifier creates a client for the Gemini API.
func NewGeminiClassifier(ctx context.Context, apiKey, model string) (*GeminiClassifier, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: no API key configured")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiClassifier{client: client, model: model}, nil
}

func (g *GeminiClassifier) Categorize(ctx context.Context, description string, categoryIDs []string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(buildPrompt(description, categoryIDs)), nil)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}

func buildPrompt(description string, categoryIDs []string) string {
	var b strings.Builder
	b.WriteString("You categorize bank statement lines for a household budget.\n")
	b.WriteString("Pick exactly one category id from this list:\n")
	for _, id := range categoryIDs {
		b.WriteString("- ")
		b.WriteString(id)
		b.WriteByte('\n')
	}
	b.WriteString("\nStatement line: ")
	b.WriteString(description)
	b.WriteString("\n\nAnswer with the id only. If none fits, answer uncategorized.\n")
	return b.String()
}
