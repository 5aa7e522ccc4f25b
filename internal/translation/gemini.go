package translation

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiTranslator translates with a Gemini model
type GeminiTranslator struct {
	client *genai.Client
	model  string
}

// NewGeminiTranslator creates a translator using the Gemini API
func NewGeminiTranslator(ctx context.Context, apiKey, model string) (*GeminiTranslator, error) {
	return NewGeminiTranslatorWithConfig(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, model)
}

// NewGeminiTranslatorWithConfig creates a translator from a full client config
func NewGeminiTranslatorWithConfig(ctx context.Context, config *genai.ClientConfig, model string) (*GeminiTranslator, error) {
	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiTranslator{client: client, model: model}, nil
}

// Name returns the provider name
func (g *GeminiTranslator) Name() string {
	return "gemini"
}

// Translate translates text from source to target
func (g *GeminiTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt(text, source, target)), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.3),
	})
	observe(g.Name(), err)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}
