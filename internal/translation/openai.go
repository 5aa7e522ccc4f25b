package translation

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAITranslator translates with a chat completion model
type OpenAITranslator struct {
	client *openai.Client
	model  string
}

// NewOpenAITranslator creates a new translator instance
func NewOpenAITranslator(apiKey, model string) *OpenAITranslator {
	return NewOpenAITranslatorWithClient(openai.NewClient(apiKey), model)
}

// NewOpenAITranslatorWithClient uses an already configured client
func NewOpenAITranslatorWithClient(client *openai.Client, model string) *OpenAITranslator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAITranslator{client: client, model: model}
}

// Name returns the provider name
func (o *OpenAITranslator) Name() string {
	return "openai"
}

// Translate translates text from source to target
func (o *OpenAITranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt(text, source, target),
			},
		},
		MaxTokens:   200,
		Temperature: 0.3,
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		observe(o.Name(), err)
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no translation returned")
		observe(o.Name(), err)
		return "", err
	}

	observe(o.Name(), nil)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func prompt(text, source, target string) string {
	return fmt.Sprintf("Translate the following %s text to %s. Respond with only the %s translation, nothing else.\n\n%s",
		LanguageName(source), LanguageName(target), LanguageName(target), text)
}
