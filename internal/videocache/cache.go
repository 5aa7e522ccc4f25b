package videocache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/signreel/internal/gloss"
	"codeberg.org/snonux/signreel/internal/logging"
	"codeberg.org/snonux/signreel/internal/metrics"
)

// Fetcher retrieves the raw bytes of a video asset
type Fetcher interface {
	Fetch(ctx context.Context, src string) ([]byte, error)
}

// BlobStore hands out local references for fetched video data
type BlobStore interface {
	// Create stores data and returns a URL a media element can play
	Create(word string, data []byte) (string, error)

	// Revoke releases a URL returned by Create
	Revoke(url string) error
}

// Entry is a cached video
type Entry struct {
	Blob         []byte
	URL          string
	LastAccessed time.Time
}

// Cache maps word text to cached sign videos
type Cache struct {
	fetcher Fetcher
	blobs   BlobStore
	logger  *zap.SugaredLogger
	now     func() time.Time

	mu       sync.Mutex
	entries  map[string]*Entry
	inflight int
	closed   bool
}

// Option configures a Cache
type Option func(*Cache)

// WithLogger sets the logger used for fetch failures
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Cache) {
		c.logger = logging.OrNop(logger)
	}
}

// WithClock replaces time.Now for access timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates an empty cache
func New(fetcher Fetcher, blobs BlobStore, opts ...Option) *Cache {
	c := &Cache{
		fetcher: fetcher,
		blobs:   blobs,
		logger:  zap.NewNop().Sugar(),
		now:     time.Now,
		entries: make(map[string]*Entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Preload fetches every translatable word that is not cached yet. All fetches
// run concurrently and Preload returns once each has succeeded or failed.
// Failures are never returned to the caller.
func (c *Cache) Preload(ctx context.Context, words []gloss.Word) {
	var pending []gloss.Word
	for _, w := range words {
		if w.Translatable && w.VideoSrc != "" {
			pending = append(pending, w)
		}
	}
	if len(pending) == 0 {
		return
	}

	c.mu.Lock()
	c.inflight++
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.inflight--
		c.mu.Unlock()
	}()

	var wg sync.WaitGroup
	for _, w := range pending {
		if c.touch(w.Text) {
			metrics.CacheHitsTotal.Inc()
			continue
		}

		wg.Add(1)
		go func(w gloss.Word) {
			defer wg.Done()
			c.load(ctx, w)
		}(w)
	}
	wg.Wait()
}

// touch refreshes the access time of word and reports whether it is cached
func (c *Cache) touch(word string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[word]
	if ok {
		entry.LastAccessed = c.now()
	}
	return ok
}

func (c *Cache) load(ctx context.Context, w gloss.Word) {
	data, err := c.fetcher.Fetch(ctx, w.VideoSrc)
	if err != nil {
		metrics.CacheFetchesTotal.WithLabelValues("error").Inc()
		c.logger.Errorw("Error loading video", "word", w.Text, "src", w.VideoSrc, "error", err)
		return
	}

	url, err := c.blobs.Create(w.Text, data)
	if err != nil {
		metrics.CacheFetchesTotal.WithLabelValues("error").Inc()
		c.logger.Errorw("Error storing video", "word", w.Text, "error", err)
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.revoke(url)
		return
	}
	// A concurrent preload may have stored the same word first. Its URL may
	// already be handed out, so it stays and the duplicate is dropped.
	if existing, ok := c.entries[w.Text]; ok {
		existing.LastAccessed = c.now()
		c.mu.Unlock()
		c.revoke(url)
		c.logger.Debugw("Dropped duplicate video", "word", w.Text)
		return
	}
	c.entries[w.Text] = &Entry{Blob: data, URL: url, LastAccessed: c.now()}
	size := len(c.entries)
	c.mu.Unlock()

	metrics.CacheFetchesTotal.WithLabelValues("success").Inc()
	metrics.CacheEntries.Set(float64(size))
	c.logger.Debugw("Cached video", "word", w.Text, "bytes", len(data))
}

// URL returns the cached URL for word and refreshes its access time
func (c *Cache) URL(word string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[word]
	if !ok {
		return "", false
	}
	entry.LastAccessed = c.now()
	return entry.URL, true
}

// Peek returns a copy of the entry for word without touching it
func (c *Cache) Peek(word string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[word]
	if !ok {
		return Entry{}, false
	}
	return *entry, true
}

// Len returns the number of cached words
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Loading reports whether a Preload call is in progress
func (c *Cache) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight > 0
}

// Resolve returns a copy of words where every translatable word points at its
// cached URL, falling back to the original asset path on a miss.
func (c *Cache) Resolve(words []gloss.Word) []gloss.Word {
	resolved := make([]gloss.Word, len(words))
	for i, w := range words {
		resolved[i] = w
		if !w.Translatable {
			resolved[i].VideoSrc = ""
			continue
		}
		if url, ok := c.URL(w.Text); ok {
			resolved[i].VideoSrc = url
		}
	}
	return resolved
}

// Close releases every cached blob. Subsequent calls do nothing.
func (c *Cache) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	entries := c.entries
	c.entries = make(map[string]*Entry)
	c.mu.Unlock()

	for _, entry := range entries {
		c.revoke(entry.URL)
	}
	metrics.CacheEntries.Set(0)
}

func (c *Cache) revoke(url string) {
	if err := c.blobs.Revoke(url); err != nil {
		c.logger.Warnw("Failed to release video blob", "url", url, "error", err)
	}
}
