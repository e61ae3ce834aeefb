package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const volumesFixture = `{
  "kind": "books#volumes",
  "totalItems": 2,
  "items": [
    {"id": "X1", "volumeInfo": {"title": "Dune", "authors": ["Frank Herbert"], "categories": ["Fiction"],
      "imageLinks": {"thumbnail": "http://img/x1"}, "pageCount": 412}},
    {"id": "X2", "volumeInfo": {}}
  ]
}`

func TestClient_SearchVolumes(t *testing.T) {
	var gotQuery, gotMax, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		gotMax = r.URL.Query().Get("maxResults")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(volumesFixture))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second, 0, nil)
	records, err := c.SearchVolumes(context.Background(), "dune+subject:Fiction", 20)
	require.NoError(t, err)

	assert.Equal(t, "/volumes", gotPath)
	assert.Equal(t, "dune+subject:Fiction", gotQuery)
	assert.Equal(t, "20", gotMax)

	require.Len(t, records, 2)
	assert.Equal(t, "X1", records[0].SourceID)
	assert.Equal(t, "Dune", records[0].Title)
	assert.Equal(t, "http://img/x1", records[0].CoverURL)
	assert.Equal(t, domain.DefaultTitle, records[1].Title)
	assert.Equal(t, domain.DefaultCoverURL, records[1].CoverURL)
}

func TestClient_SearchVolumes_EscapesQuery(t *testing.T) {
	var rawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, 0, nil)
	_, err := c.SearchVolumes(context.Background(), "war & peace+subject:Fiction", 10)
	require.NoError(t, err)

	assert.Contains(t, rawQuery, "q=war+%26+peace%2Bsubject%3AFiction")
	assert.Contains(t, rawQuery, "maxResults=10")
}

func TestClient_SearchVolumes_NoItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"kind":"books#volumes","totalItems":0}`))
	}))
	defer srv.Close()

	records, err := NewClient(srv.URL, time.Second, 0, nil).SearchVolumes(context.Background(), "zzzz", 20)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestClient_SearchVolumes_Errors(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, time.Second, 0, nil).SearchVolumes(context.Background(), "dune", 20)
		assert.ErrorIs(t, err, domain.ErrUnavailable)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, time.Second, 0, nil).SearchVolumes(context.Background(), "dune", 20)
		assert.Error(t, err)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		_, err := NewClient(url, time.Second, 0, nil).SearchVolumes(context.Background(), "dune", 20)
		assert.ErrorIs(t, err, domain.ErrUnavailable)
	})

	t.Run("request deadline", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		_, err := NewClient(srv.URL, 50*time.Millisecond, 0, nil).SearchVolumes(context.Background(), "dune", 20)
		assert.ErrorIs(t, err, domain.ErrUnavailable)
	})
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", 0, 0, nil)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, defaultTimeout, c.httpClient.Timeout)
}
