package bestseller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/mmcdole/shelf/internal/domain"
)

const (
	DefaultBaseURL = "https://api.nytimes.com/svc/books/v3"
	DefaultList    = "hardcover-fiction"
	defaultTimeout = 15 * time.Second
	userAgent      = "Shelf/1.0"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// listResponse is the envelope of lists/current/{list}.json
type listResponse struct {
	Status  string `json:"status"`
	Results struct {
		ListName string             `json:"list_name"`
		Books    []domain.RawRecord `json:"books"`
	} `json:"results"`
}

// reviewsResponse is the envelope of reviews.json
type reviewsResponse struct {
	Status     string             `json:"status"`
	NumResults int                `json:"num_results"`
	Results    []domain.RawRecord `json:"results"`
}

// Client implements domain.BestsellerRepository for the NYT Books API
type Client struct {
	baseURL    string
	apiKey     string
	list       string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new bestseller client. An empty apiKey is allowed;
// every call then fails with domain.ErrMissingAPIKey without touching the network.
func NewClient(baseURL, apiKey, list string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if list == "" {
		list = DefaultList
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  strings.TrimSpace(apiKey),
		list:    list,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// CurrentList returns the books of the configured list, unmodified
func (c *Client) CurrentList(ctx context.Context) ([]domain.RawRecord, error) {
	path := fmt.Sprintf("/lists/current/%s.json", url.PathEscape(c.list))
	body, err := c.doRequest(ctx, path, url.Values{})
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse list response: %w", err)
	}
	if resp.Results.Books == nil {
		return []domain.RawRecord{}, nil
	}
	return resp.Results.Books, nil
}

// Reviews returns the reviews published for isbn, unmodified
func (c *Client) Reviews(ctx context.Context, isbn string) ([]domain.RawRecord, error) {
	query := url.Values{}
	query.Set("isbn", isbn)

	body, err := c.doRequest(ctx, "/reviews.json", query)
	if err != nil {
		return nil, err
	}

	var resp reviewsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse reviews response: %w", err)
	}
	if resp.Results == nil {
		return []domain.RawRecord{}, nil
	}
	return resp.Results, nil
}

// doRequest performs an authenticated GET and returns the body of a 200 response
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.apiKey == "" {
		return nil, domain.ErrMissingAPIKey
	}
	query.Set("api-key", c.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	// The key travels in the query string, so log only the path
	c.logger.Debug("bestseller request", "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, redact(err.Error(), c.apiKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("bestseller request error", "path", path, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: unexpected status code %d", domain.ErrUnavailable, resp.StatusCode)
	}

	return body, nil
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "REDACTED")
}
