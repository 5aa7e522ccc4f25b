package translation

import (
	"context"
	"sync"
)

// CacheKey identifies a cached translation
type CacheKey struct {
	Target string
	Text   string
}

// TranslationCache stores translations in memory
type TranslationCache struct {
	mu           sync.RWMutex
	translations map[CacheKey]string
}

// NewTranslationCache creates a new translation cache
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{
		translations: make(map[CacheKey]string),
	}
}

// Add adds a translation to the cache
func (tc *TranslationCache) Add(target, text, translation string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.translations[CacheKey{Target: target, Text: text}] = translation
}

// Get retrieves a translation from the cache
func (tc *TranslationCache) Get(target, text string) (string, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	translation, ok := tc.translations[CacheKey{Target: target, Text: text}]
	return translation, ok
}

// GetAll returns all cached translations
func (tc *TranslationCache) GetAll() map[CacheKey]string {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	result := make(map[CacheKey]string, len(tc.translations))
	for k, v := range tc.translations {
		result[k] = v
	}
	return result
}

type cachedTranslator struct {
	next  Translator
	cache *TranslationCache
}

// Cached memoizes successful non-empty translations of next in cache
func Cached(next Translator, cache *TranslationCache) Translator {
	return &cachedTranslator{next: next, cache: cache}
}

func (c *cachedTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if translation, ok := c.cache.Get(target, text); ok {
		return translation, nil
	}
	translation, err := c.next.Translate(ctx, text, source, target)
	if err != nil {
		return "", err
	}
	if translation != "" {
		c.cache.Add(target, text, translation)
	}
	return translation, nil
}

func (c *cachedTranslator) Name() string {
	return c.next.Name()
}
