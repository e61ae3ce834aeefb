package query

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/library"
	"github.com/mmcdole/shelf/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubCatalog struct {
	records  []domain.BookRecord
	err      error
	calls    int
	lastQ    string
	lastMax  int
	deadline bool
}

func (c *stubCatalog) SearchVolumes(ctx context.Context, q string, maxResults int) ([]domain.BookRecord, error) {
	c.calls++
	c.lastQ = q
	c.lastMax = maxResults
	_, c.deadline = ctx.Deadline()
	return c.records, c.err
}

type stubBestsellers struct {
	books    []domain.RawRecord
	reviews  []domain.RawRecord
	err      error
	lastISBN string
}

func (b *stubBestsellers) CurrentList(ctx context.Context) ([]domain.RawRecord, error) {
	return b.books, b.err
}

func (b *stubBestsellers) Reviews(ctx context.Context, isbn string) ([]domain.RawRecord, error) {
	b.lastISBN = isbn
	return b.reviews, b.err
}

func dune() domain.BookRecord {
	return domain.BookRecord{
		SourceID: "X1",
		Title:    "Dune",
		Author:   "Frank Herbert",
		Genre:    "Fiction",
		CoverURL: domain.DefaultCoverURL,
	}
}

func TestBuildQuery(t *testing.T) {
	assert.Equal(t, "dune", BuildQuery("dune", ""))
	assert.Equal(t, "dune+subject:Fiction", BuildQuery("dune", "Fiction"))
	assert.Equal(t, "dune+subject:Science Fiction", BuildQuery("  dune ", " Science Fiction "))
}

func TestSearch_DelegatesWithGenreAndCap(t *testing.T) {
	cat := &stubCatalog{records: []domain.BookRecord{dune()}}
	svc := NewService(cat, nil, WithMaxResults(10), WithLogger(quiet))

	got := svc.Search(context.Background(), "dune", "Fiction")

	assert.Equal(t, []domain.BookRecord{dune()}, got)
	assert.Equal(t, 1, cat.calls)
	assert.Equal(t, "dune+subject:Fiction", cat.lastQ)
	assert.Equal(t, 10, cat.lastMax)
	assert.True(t, cat.deadline, "provider call should carry a deadline")
}

func TestSearch_TruncatesOversizedResponse(t *testing.T) {
	records := make([]domain.BookRecord, 5)
	for i := range records {
		records[i] = dune()
		records[i].SourceID = fmt.Sprintf("X%d", i)
	}
	svc := NewService(&stubCatalog{records: records}, nil, WithMaxResults(3), WithLogger(quiet))

	assert.Len(t, svc.Search(context.Background(), "dune", ""), 3)
}

func TestSearch_BlankQuerySkipsRequest(t *testing.T) {
	cat := &stubCatalog{records: []domain.BookRecord{dune()}}
	svc := NewService(cat, nil, WithLogger(quiet))

	got := svc.Search(context.Background(), "   ", "Fiction")

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, cat.calls)
}

func TestSearch_FailureIsSilent(t *testing.T) {
	cat := &stubCatalog{err: fmt.Errorf("%w: unexpected status code 503", domain.ErrUnavailable)}
	svc := NewService(cat, nil, WithLogger(quiet))

	got := svc.Search(context.Background(), "dune", "")

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 1, cat.calls)
}

func TestFetchCuratedList(t *testing.T) {
	books := []domain.RawRecord{{"title": "THE WIDOW", "rank": float64(1)}}

	t.Run("pass through", func(t *testing.T) {
		svc := NewService(nil, &stubBestsellers{books: books}, WithLogger(quiet))
		assert.Equal(t, books, svc.FetchCuratedList(context.Background()))
	})

	t.Run("missing key", func(t *testing.T) {
		svc := NewService(nil, &stubBestsellers{err: domain.ErrMissingAPIKey}, WithLogger(quiet))
		got := svc.FetchCuratedList(context.Background())
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("provider error", func(t *testing.T) {
		svc := NewService(nil, &stubBestsellers{err: errors.New("boom")}, WithLogger(quiet))
		assert.Empty(t, svc.FetchCuratedList(context.Background()))
	})

	t.Run("no provider", func(t *testing.T) {
		svc := NewService(nil, nil, WithLogger(quiet))
		assert.Empty(t, svc.FetchCuratedList(context.Background()))
	})
}

func TestFetchReviews(t *testing.T) {
	reviews := []domain.RawRecord{{"byline": "A CRITIC"}}
	bs := &stubBestsellers{reviews: reviews}
	svc := NewService(nil, bs, WithLogger(quiet))

	assert.Equal(t, reviews, svc.FetchReviews(context.Background(), " 9780441013593 "))
	assert.Equal(t, "9780441013593", bs.lastISBN)

	bs.lastISBN = ""
	assert.Empty(t, svc.FetchReviews(context.Background(), ""))
	assert.Empty(t, bs.lastISBN, "blank isbn should not reach the provider")

	bs.err = domain.ErrUnavailable
	assert.Empty(t, svc.FetchReviews(context.Background(), "1"))
}

func TestWithTimeout_BoundsSlowProvider(t *testing.T) {
	slow := slowCatalog{}
	svc := NewService(slow, nil, WithTimeout(20*time.Millisecond), WithLogger(quiet))

	start := time.Now()
	got := svc.Search(context.Background(), "dune", "")

	assert.Empty(t, got)
	assert.Less(t, time.Since(start), 2*time.Second)
}

type slowCatalog struct{}

func (slowCatalog) SearchVolumes(ctx context.Context, q string, maxResults int) ([]domain.BookRecord, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestSearchThenAdd_EndToEnd(t *testing.T) {
	blobs, err := store.NewBlobStore("")
	require.NoError(t, err)
	lib, err := library.New(blobs, library.WithLogger(quiet))
	require.NoError(t, err)

	svc := NewService(&stubCatalog{records: []domain.BookRecord{dune()}}, nil, WithLogger(quiet))

	results := svc.Search(context.Background(), "dune", "")
	require.Len(t, results, 1)

	entry, err := lib.Add(results[0])
	require.NoError(t, err)
	assert.Equal(t, "X1", entry.SourceID)
	assert.Equal(t, 0, entry.Progress)
	assert.Equal(t, domain.StatusUnread, entry.Status)
	assert.False(t, entry.IsLiked)
	assert.Positive(t, entry.ID)

	_, err = lib.Add(results[0])
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	assert.Len(t, lib.ListByGenre("", false), 1)
}
