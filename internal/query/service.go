package query

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mmcdole/shelf/internal/domain"
)

const (
	DefaultMaxResults = 20
	defaultTimeout    = 15 * time.Second
)

// Service is the stateless façade over the external book providers.
// None of its methods return errors: provider failures are logged and
// degrade to an empty result.
type Service struct {
	catalog     domain.CatalogRepository
	bestsellers domain.BestsellerRepository
	maxResults  int
	timeout     time.Duration
	logger      *slog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithMaxResults caps the number of catalog results per search
func WithMaxResults(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxResults = n
		}
	}
}

// WithTimeout bounds every provider call
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the service logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a query façade. bestsellers may be nil, in which case
// the curated list and reviews are always empty.
func NewService(catalog domain.CatalogRepository, bestsellers domain.BestsellerRepository, opts ...Option) *Service {
	s := &Service{
		catalog:     catalog,
		bestsellers: bestsellers,
		maxResults:  DefaultMaxResults,
		timeout:     defaultTimeout,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildQuery returns the provider query string for a search term and an
// optional genre qualifier
func BuildQuery(term, genre string) string {
	term = strings.TrimSpace(term)
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return term
	}
	return term + "+subject:" + genre
}

// Search returns normalized catalog records for query, restricted to genre
// when it is non-empty. A blank query returns an empty slice without a request.
func (s *Service) Search(ctx context.Context, query, genre string) []domain.BookRecord {
	if strings.TrimSpace(query) == "" || s.catalog == nil {
		return []domain.BookRecord{}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	q := BuildQuery(query, genre)
	records, err := s.catalog.SearchVolumes(ctx, q, s.maxResults)
	if err != nil {
		s.logger.Error("catalog search failed", "query", q, "error", err)
		return []domain.BookRecord{}
	}
	if len(records) > s.maxResults {
		records = records[:s.maxResults]
	}

	s.logger.Debug("catalog search complete", "query", q, "results", len(records))
	return records
}

// FetchCuratedList returns the current bestseller list as provider objects
func (s *Service) FetchCuratedList(ctx context.Context) []domain.RawRecord {
	if s.bestsellers == nil {
		return []domain.RawRecord{}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	books, err := s.bestsellers.CurrentList(ctx)
	if err != nil {
		s.logFetchError("curated list fetch failed", err)
		return []domain.RawRecord{}
	}
	return books
}

// FetchReviews returns published reviews for isbn as provider objects
func (s *Service) FetchReviews(ctx context.Context, isbn string) []domain.RawRecord {
	isbn = strings.TrimSpace(isbn)
	if s.bestsellers == nil || isbn == "" {
		return []domain.RawRecord{}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reviews, err := s.bestsellers.Reviews(ctx, isbn)
	if err != nil {
		s.logFetchError("reviews fetch failed", err, "isbn", isbn)
		return []domain.RawRecord{}
	}
	return reviews
}

// logFetchError logs a missing credential at Warn, everything else at Error
func (s *Service) logFetchError(msg string, err error, args ...any) {
	args = append(args, "error", err)
	if errors.Is(err, domain.ErrMissingAPIKey) {
		s.logger.Warn(msg, args...)
		return
	}
	s.logger.Error(msg, args...)
}
