package translation

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"codeberg.org/snonux/signreel/internal/logging"
	"codeberg.org/snonux/signreel/internal/metrics"
)

// Language codes
const (
	English = "en"
	Kannada = "kn"
)

var languageNames = map[string]string{
	English: "English",
	Kannada: "Kannada",
}

// LanguageName returns the English name of a language code
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

// Translator translates text between two languages
type Translator interface {
	// Translate returns text in the target language. An empty result is
	// not an error.
	Translate(ctx context.Context, text, source, target string) (string, error)

	// Name returns the provider name
	Name() string
}

// Config selects and configures a translation provider
type Config struct {
	Provider string // "google", "openai" or "gemini"

	GoogleEndpoint string

	OpenAIKey   string
	OpenAIModel string

	GeminiKey   string
	GeminiModel string

	HTTPClient *http.Client
	Logger     *zap.SugaredLogger
}

// DefaultConfig returns the keyless Google configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:       "google",
		GoogleEndpoint: DefaultGoogleEndpoint,
		OpenAIModel:    "gpt-4o-mini",
		GeminiModel:    "gemini-2.0-flash",
	}
}

// NewTranslator creates the provider named in config. Key based providers
// fall back to Google when they fail.
func NewTranslator(ctx context.Context, config *Config) (Translator, error) {
	if config == nil {
		config = DefaultConfig()
	}
	logger := logging.OrNop(config.Logger)
	google := NewGoogleTranslator(config.GoogleEndpoint, config.HTTPClient, logger)

	switch config.Provider {
	case "", "google":
		return google, nil

	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return WithFallback(NewOpenAITranslator(config.OpenAIKey, config.OpenAIModel), google, logger), nil

	case "gemini":
		if config.GeminiKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		gemini, err := NewGeminiTranslator(ctx, config.GeminiKey, config.GeminiModel)
		if err != nil {
			return nil, err
		}
		return WithFallback(gemini, google, logger), nil

	default:
		return nil, fmt.Errorf("unknown translation provider: %s", config.Provider)
	}
}

// fallbackTranslator wraps a primary translator with a fallback option
type fallbackTranslator struct {
	primary  Translator
	fallback Translator
	logger   *zap.SugaredLogger
}

// WithFallback creates a translator that falls back to secondary if primary fails
func WithFallback(primary, fallback Translator, logger *zap.SugaredLogger) Translator {
	return &fallbackTranslator{
		primary:  primary,
		fallback: fallback,
		logger:   logging.OrNop(logger),
	}
}

// Translate tries the primary provider first, falls back to secondary on error
func (f *fallbackTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	result, err := f.primary.Translate(ctx, text, source, target)
	if err == nil {
		return result, nil
	}
	if ctx.Err() != nil {
		return "", err
	}

	f.logger.Warnw("Primary translator failed, falling back",
		"primary", f.primary.Name(), "fallback", f.fallback.Name(), "error", err)
	return f.fallback.Translate(ctx, text, source, target)
}

// Name returns the provider name
func (f *fallbackTranslator) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", f.primary.Name(), f.fallback.Name())
}

// observe counts a translation attempt
func observe(provider string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.TranslationsTotal.WithLabelValues(provider, status).Inc()
}
