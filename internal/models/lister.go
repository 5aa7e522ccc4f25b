package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return NewListerWithClient(apiKey, openai.NewClient(apiKey))
}

// NewListerWithClient uses an already configured client
func NewListerWithClient(apiKey string, client *openai.Client) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: client,
	}
}

// TranslationModels returns the sorted chat models usable for translation
func (l *Lister) TranslationModels(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .signreel.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var chatModels []string
	for _, model := range models.Models {
		id := model.ID
		if strings.Contains(id, "tts") || strings.Contains(id, "audio") || strings.Contains(id, "realtime") || strings.Contains(id, "transcribe") {
			continue
		}
		if strings.HasPrefix(id, "gpt") || strings.Contains(id, "chat") {
			chatModels = append(chatModels, id)
		}
	}
	sort.Strings(chatModels)
	return chatModels, nil
}

// ListAvailableModels prints the translation models to w
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	chatModels, err := l.TranslationModels(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Chat/Translation Models (for --translator openai):")
	if len(chatModels) == 0 {
		fmt.Fprintln(w, "  No chat models found")
		return nil
	}
	for _, model := range chatModels {
		fmt.Fprintf(w, "  %s\n", model)
	}
	return nil
}
