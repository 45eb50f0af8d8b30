package unsplash

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/pixgrid/internal/domain"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.unsplash.com"

	// MaxPerPage is the largest page size the search endpoint accepts
	MaxPerPage = 30

	defaultTimeout = 30 * time.Second
	searchPath     = "/search/photos"
	maxErrorBody   = 512
)

// Client implements domain.SearchClient against the Unsplash search API.
// Every call is a single attempt: no retries, no backoff.
type Client struct {
	baseURL    string
	accessKey  string
	perPage    int
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPerPage sets the page size, clamped to [1, MaxPerPage]
func WithPerPage(n int) Option {
	return func(c *Client) {
		switch {
		case n <= 0:
			c.perPage = domain.DefaultPageSize
		case n > MaxPerPage:
			c.perPage = MaxPerPage
		default:
			c.perPage = n
		}
	}
}

// WithRateLimit spaces requests to at most rps per second. rps <= 0 disables limiting.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a new Unsplash API client
func NewClient(baseURL, accessKey string, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		accessKey: accessKey,
		perPage:   domain.DefaultPageSize,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PerPage returns the configured page size
func (c *Client) PerPage() int {
	return c.perPage
}

// FetchPage returns one page of photos matching query. An empty query
// returns an empty page without contacting the API.
func (c *Client) FetchPage(ctx context.Context, query string, page int) ([]domain.Image, error) {
	if page < 1 {
		return nil, domain.ErrInvalidPage
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Image{}, nil
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(c.perPage))
	params.Set("client_id", c.accessKey)

	body, err := c.doRequest(ctx, searchPath, params)
	if err != nil {
		return nil, err
	}

	var resp SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	images := MapPhotos(resp.Results)
	if len(images) > c.perPage {
		images = images[:c.perPage]
	}

	c.logger.Debug("unsplash search complete",
		"query", query,
		"page", page,
		"results", len(images),
		"total", resp.Total,
		"totalPages", resp.TotalPages,
	)

	return images, nil
}

// doRequest performs a GET against the API and returns the body of a 2xx response
func (c *Client) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	reqURL := c.baseURL + path
	if params != nil {
		reqURL = reqURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Version", "v1")

	c.logger.Debug("unsplash request", "path", path, "query", params.Get("query"), "page", params.Get("page"))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unsplash request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyStatus(resp.StatusCode, body)
	}

	return body, nil
}

// classifyStatus maps a non-2xx status to a domain error
func classifyStatus(status int, body []byte) error {
	detail := errorDetail(body)
	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, detail)
	case http.StatusForbidden, http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, detail)
	default:
		return fmt.Errorf("%w: status %d: %s", domain.ErrUpstream, status, detail)
	}
}

// errorDetail extracts a readable message from an error body
func errorDetail(body []byte) string {
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && len(er.Errors) > 0 {
		return strings.Join(er.Errors, "; ")
	}
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody]
	}
	return s
}
