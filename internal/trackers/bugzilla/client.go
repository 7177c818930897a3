// Package bugzilla provides a client for the Bugzilla REST API.
package bugzilla

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/buglens/buglens/internal/models"
)

const (
	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 5

	// DefaultPageSize is the number of bugs fetched per search request.
	DefaultPageSize = 100

	// maxPages bounds the pagination loop against a misbehaving service.
	maxPages = 200
)

// Client is a Bugzilla REST API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
	pageSize   int
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the HTTP timeout on the default client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) Option {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithPageSize sets the number of bugs fetched per search request.
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// NewClient creates a new Bugzilla API client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:   arbor.NewLogger(),
		limiter:  rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		pageSize: DefaultPageSize,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an error returned by the Bugzilla REST API.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bugzilla API error: %s (status %d, code %d, endpoint: %s)",
		e.Message, e.StatusCode, e.Code, e.Endpoint)
}

// errorEnvelope is Bugzilla's REST error response shape.
type errorEnvelope struct {
	Error   bool   `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Name identifies the backend.
func (c *Client) Name() string {
	return "bugzilla"
}

// Ping verifies the service is reachable via the version endpoint.
func (c *Client) Ping(ctx context.Context) error {
	var result struct {
		Version string `json:"version"`
	}
	if err := c.get(ctx, "/rest/version", nil, &result); err != nil {
		return err
	}
	c.logger.Debug().Str("version", result.Version).Msg("Bugzilla service reachable")
	return nil
}

// Login authenticates against the service and stores the session token
// for subsequent requests.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("bugzilla login requires username and password")
	}

	params := url.Values{}
	params.Set("login", username)
	params.Set("password", password)

	var result struct {
		ID    int    `json:"id"`
		Token string `json:"token"`
	}
	if err := c.get(ctx, "/rest/login", params, &result); err != nil {
		return fmt.Errorf("bugzilla login failed: %w", err)
	}

	c.token = result.Token
	c.logger.Info().Int("userId", result.ID).Msg("Logged into Bugzilla")
	return nil
}

// Logout invalidates the session token. Best effort.
func (c *Client) Logout(ctx context.Context) {
	if c.token == "" {
		return
	}
	if err := c.get(ctx, "/rest/logout", nil, &struct{}{}); err != nil {
		c.logger.Warn().Err(err).Msg("Bugzilla logout failed")
	}
	c.token = ""
}

// Search executes one query definition against /rest/bug, paginating
// until the service returns a short batch.
func (c *Client) Search(ctx context.Context, query models.QueryDefinition) ([]models.Issue, error) {
	var issues []models.Issue
	offset := 0

	for page := 0; page < maxPages; page++ {
		batch, err := c.fetchBugsBatch(ctx, query, offset)
		if err != nil {
			return nil, err
		}

		issues = append(issues, batch...)

		if len(batch) < c.pageSize {
			break
		}
		offset += c.pageSize
	}

	c.logger.Info().
		Int("issues", len(issues)).
		Msg("Completed Bugzilla search")

	return issues, nil
}

func (c *Client) fetchBugsBatch(ctx context.Context, query models.QueryDefinition, offset int) ([]models.Issue, error) {
	params := buildSearchParams(query)
	params.Set("limit", strconv.Itoa(c.pageSize))
	params.Set("offset", strconv.Itoa(offset))

	var result struct {
		Bugs []map[string]interface{} `json:"bugs"`
	}
	if err := c.get(ctx, "/rest/bug", params, &result); err != nil {
		return nil, err
	}

	issues := make([]models.Issue, 0, len(result.Bugs))
	for _, bug := range result.Bugs {
		issue := models.Issue{Fields: bug}
		if id, ok := bug["id"].(float64); ok {
			issue.ID = int(id)
		}
		issues = append(issues, issue)
	}

	return issues, nil
}

// buildSearchParams maps a query definition onto /rest/bug parameters:
// every filter value becomes a repeated parameter under its field name,
// include_fields a single comma-separated parameter.
func buildSearchParams(query models.QueryDefinition) url.Values {
	params := url.Values{}
	for field, values := range query.Filters {
		for _, value := range values {
			params.Add(field, value)
		}
	}
	if len(query.IncludeFields) > 0 {
		params.Set("include_fields", strings.Join(query.IncludeFields, ","))
	}
	return params
}

// get performs a GET request to the API.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	if c.token != "" {
		params.Set("token", c.token)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL = reqURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Endpoint:   path,
		}
		var envelope errorEnvelope
		if jsonErr := json.Unmarshal(body, &envelope); jsonErr == nil && envelope.Error {
			apiErr.Code = envelope.Code
			apiErr.Message = envelope.Message
		}
		c.logger.Error().
			Str("endpoint", path).
			Int("status", resp.StatusCode).
			Msg("Bugzilla request failed")
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to parse response from %s: %w", path, err)
		}
	}

	return nil
}
