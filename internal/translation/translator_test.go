package translation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// mockTranslator implements Translator for testing
type mockTranslator struct {
	name   string
	result string
	err    error
	calls  int
}

func (m *mockTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	m.calls++
	return m.result, m.err
}

func (m *mockTranslator) Name() string {
	return m.name
}

func TestNewTranslator(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		wantName string
		wantErr  string
	}{
		{
			name:     "nil config uses google",
			config:   nil,
			wantName: "google",
		},
		{
			name:     "google",
			config:   &Config{Provider: "google"},
			wantName: "google",
		},
		{
			name:     "openai with key",
			config:   &Config{Provider: "openai", OpenAIKey: "test-key"},
			wantName: "openai (fallback: google)",
		},
		{
			name:    "openai without key",
			config:  &Config{Provider: "openai"},
			wantErr: "OpenAI API key is required",
		},
		{
			name:     "gemini with key",
			config:   &Config{Provider: "gemini", GeminiKey: "test-key"},
			wantName: "gemini (fallback: google)",
		},
		{
			name:    "gemini without key",
			config:  &Config{Provider: "gemini"},
			wantErr: "Gemini API key is required",
		},
		{
			name:    "unknown provider",
			config:  &Config{Provider: "babelfish"},
			wantErr: "unknown translation provider: babelfish",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			translator, err := NewTranslator(context.Background(), tt.config)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Errorf("expected error %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if translator.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", translator.Name(), tt.wantName)
			}
		})
	}
}

func TestWithFallback(t *testing.T) {
	tests := []struct {
		name          string
		primary       *mockTranslator
		fallback      *mockTranslator
		want          string
		wantErr       bool
		fallbackCalls int
	}{
		{
			name:     "primary succeeds",
			primary:  &mockTranslator{name: "p", result: "ನೀರು"},
			fallback: &mockTranslator{name: "f", result: "unused"},
			want:     "ನೀರು",
		},
		{
			name:          "primary fails",
			primary:       &mockTranslator{name: "p", err: errors.New("quota")},
			fallback:      &mockTranslator{name: "f", result: "ನೀರು"},
			want:          "ನೀರು",
			fallbackCalls: 1,
		},
		{
			name:          "both fail",
			primary:       &mockTranslator{name: "p", err: errors.New("quota")},
			fallback:      &mockTranslator{name: "f", err: errors.New("down")},
			wantErr:       true,
			fallbackCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			translator := WithFallback(tt.primary, tt.fallback, nil)
			got, err := translator.Translate(context.Background(), "water", English, Kannada)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if tt.fallback.calls != tt.fallbackCalls {
				t.Errorf("fallback called %d times, want %d", tt.fallback.calls, tt.fallbackCalls)
			}
		})
	}
}

func TestWithFallback_CancelledContext(t *testing.T) {
	primary := &mockTranslator{name: "p", err: context.Canceled}
	fallback := &mockTranslator{name: "f", result: "x"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := WithFallback(primary, fallback, nil).Translate(ctx, "water", English, Kannada); err == nil {
		t.Error("expected an error")
	}
	if fallback.calls != 0 {
		t.Error("fallback must not run once the context is done")
	}
}

func TestTranslationCache(t *testing.T) {
	cache := NewTranslationCache()

	if _, found := cache.Get(Kannada, "water"); found {
		t.Error("Expected not found in empty cache")
	}

	cache.Add(Kannada, "water", "ನೀರು")
	cache.Add(English, "ನೀರು", "water")

	translation, found := cache.Get(Kannada, "water")
	if !found || translation != "ನೀರು" {
		t.Errorf("Expected 'ನೀರು', got %q", translation)
	}
	if _, found := cache.Get(English, "water"); found {
		t.Error("entries must be keyed by target language")
	}

	all := cache.GetAll()
	expected := map[CacheKey]string{
		{Target: Kannada, Text: "water"}: "ನೀರು",
		{Target: English, Text: "ನೀರು"}:  "water",
	}
	if !reflect.DeepEqual(all, expected) {
		t.Errorf("GetAll() = %v, want %v", all, expected)
	}

	all[CacheKey{Target: Kannada, Text: "water"}] = "modified"
	if translation, _ := cache.Get(Kannada, "water"); translation != "ನೀರು" {
		t.Error("Cache was modified through returned map")
	}
}

func TestCached(t *testing.T) {
	next := &mockTranslator{name: "mock", result: "ನೀರು"}
	translator := Cached(next, NewTranslationCache())

	for i := 0; i < 3; i++ {
		got, err := translator.Translate(context.Background(), "water", English, Kannada)
		if err != nil || got != "ನೀರು" {
			t.Fatalf("got %q, %v", got, err)
		}
	}
	if next.calls != 1 {
		t.Errorf("expected 1 underlying call, got %d", next.calls)
	}
	if translator.Name() != "mock" {
		t.Errorf("unexpected name %q", translator.Name())
	}

	empty := &mockTranslator{name: "empty"}
	translator = Cached(empty, NewTranslationCache())
	translator.Translate(context.Background(), "x", English, Kannada)
	translator.Translate(context.Background(), "x", English, Kannada)
	if empty.calls != 2 {
		t.Errorf("empty results must not be cached, got %d calls", empty.calls)
	}
}

func TestOpenAITranslator(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request: %v", err)
		}
		if len(req.Messages) != 1 || !strings.Contains(req.Messages[0].Content, "English text to Kannada") {
			t.Errorf("unexpected prompt: %+v", req.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"  ನನಗೆ ನೀರು ಬೇಕು \n"}}]}`))
	}))
	defer server.Close()

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	translator := NewOpenAITranslatorWithClient(openai.NewClientWithConfig(config), "")

	got, err := translator.Translate(context.Background(), "I want water", English, Kannada)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "ನನಗೆ ನೀರು ಬೇಕು" {
		t.Errorf("got %q", got)
	}
}

func TestGeminiTranslator(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"ನೀರು\n"}]}}]}`))
	}))
	defer server.Close()

	translator, err := NewGeminiTranslatorWithConfig(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: server.URL},
	}, "")
	if err != nil {
		t.Fatalf("NewGeminiTranslatorWithConfig failed: %v", err)
	}

	got, err := translator.Translate(context.Background(), "water", English, Kannada)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "ನೀರು" {
		t.Errorf("got %q", got)
	}
}

func TestEmptyTextSkipsProviders(t *testing.T) {
	translator := NewOpenAITranslator("unused", "")
	got, err := translator.Translate(context.Background(), "   ", English, Kannada)
	if err != nil || got != "" {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestLanguageName(t *testing.T) {
	if LanguageName(Kannada) != "Kannada" || LanguageName("fr") != "fr" {
		t.Error("unexpected language names")
	}
}
