package edgar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/seantchan/cik-parser/internal/model"
)

// DefaultMaxBodySize bounds how much of a response is read. Information
// tables of the largest filers run to tens of megabytes.
const DefaultMaxBodySize = 64 * 1024 * 1024

// ErrHTTPStatus is wrapped when EDGAR answers with a non-2xx status.
var ErrHTTPStatus = errors.New("unexpected HTTP status")

// ErrBodyTooLarge is wrapped when a response exceeds the body size limit.
var ErrBodyTooLarge = errors.New("response body too large")

// Client fetches EDGAR pages and documents.
type Client struct {
	// httpClient performs the requests.
	httpClient *http.Client

	// baseURL prefixes site-relative links, without trailing slash.
	baseURL string

	// userAgent is sent with every request.
	userAgent string

	// limiter gates every request.
	limiter *rate.Limiter

	// maxBodySize limits the response body size.
	maxBodySize int64

	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Its Timeout is left as given.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithRateLimit sets the maximum number of requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		c.maxBodySize = size
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client for the EDGAR site at baseURL.
// timeout bounds each request.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		limiter:     rate.NewLimiter(rate.Limit(10), 1),
		maxBodySize: DefaultMaxBodySize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Response is a fetched page or document.
type Response struct {
	// URL is the requested URL.
	URL string

	// ContentType is the Content-Type response header.
	ContentType string

	// Body is the complete response body.
	Body []byte
}

// Reader returns a reader over the body.
func (r *Response) Reader() io.Reader {
	return bytes.NewReader(r.Body)
}

// Fetch performs a GET request and reads the whole body.
// Network errors, non-2xx statuses and oversized bodies are all returned as
// errors; the caller classifies them as transport failures.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug("fetching", "url", rawURL, "user_agent", c.userAgent)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d %s", ErrHTTPStatus, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrBodyTooLarge, c.maxBodySize)
	}

	c.logger.Debug("fetched",
		"url", rawURL,
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	return &Response{
		URL:         rawURL,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// LatestFiling fetches the filing index at indexURL and returns the URL of
// the most recent filing detail page.
func (c *Client) LatestFiling(ctx context.Context, indexURL string) (string, error) {
	resp, err := c.Fetch(ctx, indexURL)
	if err != nil {
		return "", model.NewStageError(model.StageSelectFiling, indexURL, model.ErrTransport, err)
	}

	page, err := ParseIndexPage(resp.Reader(), resp.ContentType)
	if err != nil {
		return "", model.NewStageError(model.StageSelectFiling, indexURL, model.ErrUnexpectedPageStructure, err)
	}
	if page.NoResults() {
		return "", model.NewStageError(model.StageSelectFiling, indexURL, model.ErrInvalidIdentifier, nil)
	}

	link, err := SelectFilingDetailLink(page.FilingLinks)
	if err != nil {
		return "", model.NewStageError(model.StageSelectFiling, indexURL, model.ErrUnexpectedPageStructure, err)
	}

	c.logger.Debug("selected filing", "href", link.Href, "candidates", len(page.FilingLinks))
	return c.Resolve(link.Href), nil
}

// HoldingsDocument fetches the filing detail page at filingURL and returns
// the URL of its holdings XML document.
func (c *Client) HoldingsDocument(ctx context.Context, filingURL string) (string, error) {
	resp, err := c.Fetch(ctx, filingURL)
	if err != nil {
		return "", model.NewStageError(model.StageLocateDocument, filingURL, model.ErrTransport, err)
	}

	page, err := ParseFilingPage(resp.Reader(), resp.ContentType)
	if err != nil {
		return "", model.NewStageError(model.StageLocateDocument, filingURL, model.ErrUnexpectedPageStructure, err)
	}

	link, err := SelectHoldingsDocumentLink(page.DocumentLinks)
	if err != nil {
		return "", model.NewStageError(model.StageLocateDocument, filingURL, model.ErrUnexpectedPageStructure, err)
	}

	c.logger.Debug("selected holdings document", "href", link.Href, "text", link.Text)
	return c.Resolve(link.Href), nil
}

// Resolve turns a link from an EDGAR page into an absolute URL.
// Site-relative links are prefixed with the base URL; absolute links are
// returned unchanged.
func (c *Client) Resolve(href string) string {
	if u, err := url.Parse(href); err == nil && u.IsAbs() {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return c.baseURL + href
}
