package translation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"codeberg.org/snonux/signreel/internal/metrics"
)

func TestParseGoogleResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "single segment",
			body: `[[["ನೀರು","water",null,null,10]],null,"en"]`,
			want: "ನೀರು",
		},
		{
			name: "multiple segments",
			body: `[[["ನನಗೆ ನೀರು ಬೇಕು. ","I want water. ",null,null,3],["ಧನ್ಯವಾದಗಳು","Thank you",null,null,3]],null,"en"]`,
			want: "ನನಗೆ ನೀರು ಬೇಕು. ಧನ್ಯವಾದಗಳು",
		},
		{
			name: "segment without text is skipped",
			body: `[[[null,"x"],["ನೀರು","water"]]]`,
			want: "ನೀರು",
		},
		{name: "not an array", body: `{"error":"x"}`, want: ""},
		{name: "first element not an array", body: `[null,null,"en"]`, want: ""},
		{name: "empty array", body: `[]`, want: ""},
		{name: "garbage", body: `<html>`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseGoogleResponse([]byte(tt.body)); got != tt.want {
				t.Errorf("ParseGoogleResponse() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGoogleTranslator_Translate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("client") != "gtx" || q.Get("sl") != "en" || q.Get("tl") != "kn" || q.Get("dt") != "t" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if q.Get("q") != "I want water" {
			t.Errorf("unexpected text %q", q.Get("q"))
		}
		w.Write([]byte(`[[["ನನಗೆ ನೀರು ಬೇಕು","I want water",null,null,3]],null,"en"]`))
	}))
	defer server.Close()

	before := promtest.ToFloat64(metrics.TranslationsTotal.WithLabelValues("google", "success"))

	translator := NewGoogleTranslator(server.URL, server.Client(), nil)
	got, err := translator.Translate(context.Background(), "I want water", English, Kannada)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "ನನಗೆ ನೀರು ಬೇಕು" {
		t.Errorf("got %q", got)
	}

	after := promtest.ToFloat64(metrics.TranslationsTotal.WithLabelValues("google", "success"))
	if after != before+1 {
		t.Errorf("expected success counter to increase by 1, got %v -> %v", before, after)
	}
}

func TestGoogleTranslator_BreakerOpens(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	translator := NewGoogleTranslator(server.URL, server.Client(), nil)
	for i := 0; i < 8; i++ {
		if _, err := translator.Translate(context.Background(), "water", English, Kannada); err == nil {
			t.Fatal("expected an error")
		}
	}

	if requests != 5 {
		t.Errorf("breaker should stop requests after 5 failures, server saw %d", requests)
	}
}

func TestGoogleTranslator_EmptyText(t *testing.T) {
	translator := NewGoogleTranslator("http://127.0.0.1:0", nil, nil)
	got, err := translator.Translate(context.Background(), "  ", English, Kannada)
	if err != nil || got != "" {
		t.Errorf("got %q, %v", got, err)
	}
}
