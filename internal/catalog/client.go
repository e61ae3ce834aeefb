package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/mmcdole/shelf/internal/domain"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://www.googleapis.com/books/v1"
	defaultTimeout = 15 * time.Second
	userAgent      = "Shelf/1.0"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client implements domain.CatalogRepository for the Google Books API
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a new catalog client. A zero timeout uses the default;
// requestsPerSecond <= 0 disables client-side rate limiting.
func NewClient(baseURL string, timeout time.Duration, requestsPerSecond float64, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// SearchVolumes runs one volumes query. q is sent verbatim (URL-escaped),
// including any "+subject:" qualifier. A response without items yields an
// empty slice, not an error.
func (c *Client) SearchVolumes(ctx context.Context, q string, maxResults int) ([]domain.BookRecord, error) {
	query := url.Values{}
	query.Set("q", q)
	if maxResults > 0 {
		query.Set("maxResults", strconv.Itoa(maxResults))
	}

	body, err := c.doRequest(ctx, "/volumes", query)
	if err != nil {
		return nil, err
	}

	var resp VolumesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("catalog JSON parse error", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return MapVolumes(resp.Items), nil
}

// doRequest performs a GET and returns the body of a 200 response
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("catalog request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("catalog request error", "status", resp.StatusCode, "bodyLen", len(body))
		return nil, fmt.Errorf("%w: unexpected status code %d", domain.ErrUnavailable, resp.StatusCode)
	}

	return body, nil
}
