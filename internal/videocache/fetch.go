package videocache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FetchError reports a non-2xx response for a video asset
type FetchError struct {
	Src        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to load video %s: HTTP %d", e.Src, e.StatusCode)
}

// HTTPFetcher downloads assets relative to a static asset host
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFetcher creates a fetcher for assets served under baseURL
func NewHTTPFetcher(baseURL string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

// Fetch downloads src. Absolute URLs are used as-is.
func (f *HTTPFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	url := src
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		url = f.baseURL + "/" + strings.TrimPrefix(src, "/")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Src: src, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src, err)
	}
	return data, nil
}

// DirFetcher reads assets from a local copy of the asset tree
type DirFetcher struct {
	root string
}

// NewDirFetcher creates a fetcher rooted at dir
func NewDirFetcher(dir string) *DirFetcher {
	return &DirFetcher{root: dir}
}

// Fetch reads src below the root directory
func (f *DirFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Clean as an absolute slash path so ".." cannot climb above the root
	rel := path.Clean("/" + src)
	data, err := os.ReadFile(filepath.Join(f.root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, fmt.Errorf("failed to read video %s: %w", src, err)
	}
	return data, nil
}
