package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/signreel/internal/logging"
	"codeberg.org/snonux/signreel/internal/metrics"
)

// DefaultURL is where the service listens when nothing is configured
const DefaultURL = "http://localhost:5000"

// Endpoint paths
const (
	PathRoot         = "/"
	PathProcessVideo = "/api/process-video"
	PathEnglish      = "/api/english"
	PathISL          = "/api/isl"
)

// VideoResult is the sign detection outcome for one clip
type VideoResult struct {
	DetectedSigns map[string]int `json:"detected_signs"`
	TotalSigns    int            `json:"total_signs"`
	UniqueSigns   int            `json:"unique_signs"`
	// OrderedSigns lists the signs in the order they were performed
	OrderedSigns []string `json:"ordered_signs"`
}

// Client calls the recognition service
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Client) {
		c.logger = logging.OrNop(logger)
	}
}

// NewClient creates a client for the service at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service address
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping checks that the service answers
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+PathRoot, nil)
	if err != nil {
		return c.fail(PathRoot, &RequestError{Endpoint: PathRoot, Err: err})
	}
	return c.do(req, PathRoot, nil)
}

// English turns a gloss into an English sentence
func (c *Client) English(ctx context.Context, gloss string) (string, error) {
	var resp struct {
		EnglishText string `json:"english_text"`
	}
	if err := c.postJSON(ctx, PathEnglish, map[string]string{"gloss": gloss}, &resp); err != nil {
		return "", err
	}
	return resp.EnglishText, nil
}

// ISL turns an English sentence into a gloss
func (c *Client) ISL(ctx context.Context, sentence string) (string, error) {
	var resp struct {
		ISLGloss string `json:"isl_gloss"`
	}
	if err := c.postJSON(ctx, PathISL, map[string]string{"sentence": sentence}, &resp); err != nil {
		return "", err
	}
	return resp.ISLGloss, nil
}

// ProcessVideo uploads a clip for sign detection. The body is streamed from r,
// which must yield size bytes. progress, if set, receives the share of the
// clip sent so far in whole percent.
func (c *Client) ProcessVideo(ctx context.Context, name string, r io.Reader, size int64, progress func(percent int)) (*VideoResult, error) {
	contentType, ok := uploadTypes[strings.ToLower(filepath.Ext(name))]
	if !ok {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="video"; filename="%s"`, escapeQuotes(filepath.Base(name))))
	header.Set("Content-Type", contentType)

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	length, err := multipartLength(mw.Boundary(), header, size)
	if err != nil {
		return nil, c.fail(PathProcessVideo, &RequestError{Endpoint: PathProcessVideo, Err: err})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PathProcessVideo, pr)
	if err != nil {
		return nil, c.fail(PathProcessVideo, &RequestError{Endpoint: PathProcessVideo, Err: err})
	}
	req.ContentLength = length
	req.Header.Set("Content-Type", mw.FormDataContentType())

	src := r
	if progress != nil {
		src = &progressReader{r: r, total: size, report: progress, last: -1}
	}

	written := make(chan error, 1)
	go func() {
		err := writeVideoPart(mw, header, src)
		pw.CloseWithError(err)
		written <- err
	}()

	c.logger.Infow("Uploading video", "name", name, "bytes", size)

	var result VideoResult
	err = c.roundTrip(req, PathProcessVideo, &result)
	// Unblocks the writer when the transport gave up before reading the body
	pr.Close()
	if werr := <-written; err != nil && werr != nil && !errors.Is(werr, io.ErrClosedPipe) {
		err = &RequestError{Endpoint: PathProcessVideo, Err: fmt.Errorf("failed to read video: %w", werr)}
	}
	if err != nil {
		return nil, c.fail(PathProcessVideo, err)
	}
	c.succeed(PathProcessVideo)

	c.logger.Debugw("Processing results", "signs", result.OrderedSigns, "total", result.TotalSigns)
	return &result, nil
}

func writeVideoPart(mw *multipart.Writer, header textproto.MIMEHeader, r io.Reader) error {
	part, err := mw.CreatePart(header)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return err
	}
	return mw.Close()
}

// multipartLength returns the encoded size of a single part form carrying
// size bytes of content
func multipartLength(boundary string, header textproto.MIMEHeader, size int64) (int64, error) {
	var framing bytes.Buffer
	mw := multipart.NewWriter(&framing)
	if err := mw.SetBoundary(boundary); err != nil {
		return 0, err
	}
	if _, err := mw.CreatePart(header); err != nil {
		return 0, err
	}
	if err := mw.Close(); err != nil {
		return 0, err
	}
	return int64(framing.Len()) + size, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return c.fail(endpoint, &RequestError{Endpoint: endpoint, Err: err})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(data))
	if err != nil {
		return c.fail(endpoint, &RequestError{Endpoint: endpoint, Err: err})
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, endpoint, out)
}

// do sends req and decodes a JSON reply into out when out is not nil
func (c *Client) do(req *http.Request, endpoint string, out any) error {
	if err := c.roundTrip(req, endpoint, out); err != nil {
		return c.fail(endpoint, err)
	}
	c.succeed(endpoint)
	return nil
}

// roundTrip is do without the accounting
func (c *Client) roundTrip(req *http.Request, endpoint string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NoResponseError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		_ = json.Unmarshal(raw, &errBody)
		return &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    errBody.Error,
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &DecodeError{Endpoint: endpoint, Err: err}
		}
	}
	return nil
}

func (c *Client) succeed(endpoint string) {
	metrics.BackendRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
}

func (c *Client) fail(endpoint string, err error) error {
	var statusErr *StatusError
	var noResp *NoResponseError
	var decodeErr *DecodeError
	status := "request_error"
	switch {
	case errors.As(err, &statusErr):
		status = "status_error"
	case errors.As(err, &noResp):
		status = "no_response"
	case errors.As(err, &decodeErr):
		status = "decode_error"
	}
	metrics.BackendRequestsTotal.WithLabelValues(endpoint, status).Inc()
	c.logger.Errorw("Backend request failed", "endpoint", endpoint, "error", err)
	return err
}

// progressReader reports how much of the body has been read
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	last   int
	report func(int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.total > 0 {
		percent := int((p.read*100 + p.total/2) / p.total)
		if percent != p.last {
			p.last = percent
			p.report(percent)
		}
	}
	return n, err
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
