package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"codeberg.org/snonux/signreel/internal/logging"
)

// DefaultGoogleEndpoint is the keyless Google Translate endpoint
const DefaultGoogleEndpoint = "https://translate.googleapis.com/translate_a/single"

// GoogleTranslator uses the public Google Translate endpoint
type GoogleTranslator struct {
	endpoint   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.SugaredLogger
}

// NewGoogleTranslator creates a translator for endpoint. After five
// consecutive failures requests are rejected for 30 seconds.
func NewGoogleTranslator(endpoint string, client *http.Client, logger *zap.SugaredLogger) *GoogleTranslator {
	if endpoint == "" {
		endpoint = DefaultGoogleEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	logger = logging.OrNop(logger)

	return &GoogleTranslator{
		endpoint:   endpoint,
		httpClient: client,
		logger:     logger,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "google-translate",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warnw("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
		}),
	}
}

// Name returns the provider name
func (g *GoogleTranslator) Name() string {
	return "google"
}

// Translate translates text from source to target
func (g *GoogleTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	result, err := g.breaker.Execute(func() (interface{}, error) {
		return g.fetch(ctx, text, source, target)
	})
	observe(g.Name(), err)
	if err != nil {
		g.logger.Errorw("Translation error", "target", target, "error", err)
		return "", fmt.Errorf("google translate: %w", err)
	}
	return result.(string), nil
}

func (g *GoogleTranslator) fetch(ctx context.Context, text, source, target string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", source)
	params.Set("tl", target)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return ParseGoogleResponse(body), nil
}

// ParseGoogleResponse concatenates the translated segments of a response.
// The payload is a nested array whose first element lists the segments,
// each holding its translation first. Anything else yields "".
func ParseGoogleResponse(body []byte) string {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil || len(payload) == 0 {
		return ""
	}

	var segments []json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return ""
	}

	var sb strings.Builder
	for _, raw := range segments {
		var segment []json.RawMessage
		if err := json.Unmarshal(raw, &segment); err != nil || len(segment) == 0 {
			continue
		}
		var translated string
		if err := json.Unmarshal(segment[0], &translated); err != nil {
			continue
		}
		sb.WriteString(translated)
	}
	return sb.String()
}
