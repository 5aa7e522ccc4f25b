package testutil

import (
	"context"
	"fmt"
	"io"
	"sync"

	"codeberg.org/snonux/signreel/internal/backend"
)

// MockBackend mocks the recognition service
type MockBackend struct {
	mu sync.Mutex

	// Glosses maps sentences to the gloss returned by ISL
	Glosses map[string]string
	// Sentences maps glosses to the sentence returned by English
	Sentences map[string]string
	Video     *backend.VideoResult

	PingErr    error
	ISLErr     error
	EnglishErr error
	VideoErr   error

	Calls    []string
	Uploaded []byte
}

// Ping mocks the connection check
func (m *MockBackend) Ping(ctx context.Context) error {
	m.record("Ping")
	return m.PingErr
}

// ProcessVideo mocks the upload and records the uploaded bytes
func (m *MockBackend) ProcessVideo(ctx context.Context, name string, r io.Reader, size int64, progress func(percent int)) (*backend.VideoResult, error) {
	m.record(fmt.Sprintf("ProcessVideo: %s", name))
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.Uploaded = data
	m.mu.Unlock()

	if m.VideoErr != nil {
		return nil, m.VideoErr
	}
	if progress != nil {
		progress(100)
	}
	if m.Video == nil {
		return &backend.VideoResult{}, nil
	}
	return m.Video, nil
}

// English mocks gloss to sentence conversion
func (m *MockBackend) English(ctx context.Context, gloss string) (string, error) {
	m.record(fmt.Sprintf("English: %s", gloss))
	if m.EnglishErr != nil {
		return "", m.EnglishErr
	}
	return m.Sentences[gloss], nil
}

// ISL mocks sentence to gloss conversion. Unknown sentences are echoed.
func (m *MockBackend) ISL(ctx context.Context, sentence string) (string, error) {
	m.record(fmt.Sprintf("ISL: %s", sentence))
	if m.ISLErr != nil {
		return "", m.ISLErr
	}
	if gloss, ok := m.Glosses[sentence]; ok {
		return gloss, nil
	}
	return sentence, nil
}

// CallList returns a copy of the recorded calls
func (m *MockBackend) CallList() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Calls...)
}

func (m *MockBackend) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}

// MockTranslator mocks translation service
type MockTranslator struct {
	mu sync.Mutex

	Translations map[string]string
	Errors       map[string]error
	Calls        []string
}

// Translate mocks translating text
func (m *MockTranslator) Translate(ctx context.Context, text, fromLang, toLang string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := fmt.Sprintf("Translate: %s (%s->%s)", text, fromLang, toLang)
	m.Calls = append(m.Calls, call)

	if err, ok := m.Errors[text]; ok {
		return "", err
	}

	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}

	// Default mock translation
	return fmt.Sprintf("mock translation of %s", text), nil
}

// Name returns the provider name
func (m *MockTranslator) Name() string {
	return "mock"
}

// CallCount returns the number of Translate calls
func (m *MockTranslator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
