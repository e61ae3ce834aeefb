package library

import (
	"testing"
	"time"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// legacyLibrary is a library saved by the unversioned browser app
const legacyLibrary = `[
  {"id":1700000000000,"title":"Dune","author":"Frank Herbert","genre":"Fiction","isLiked":true,
   "googleId":"A1","coverUrl":"http://img/a1","description":"Spice.","pageCount":412,
   "publishedDate":"1965-08-01","averageRating":4.5,"ratingsCount":120,
   "previewLink":"https://books.example/dune","notes":"","dateAdded":"2023-11-14T22:13:20.000Z"},
  {"id":1700000000500,"title":"Field Notes","author":"Unknown Author","genre":"Uncategorized","isLiked":false,
   "googleId":"B2","coverUrl":"https://via.placeholder.com/128x192?text=No+Cover",
   "description":"No description available","pageCount":"Unknown","publishedDate":"Unknown",
   "averageRating":0,"ratingsCount":0,"previewLink":null,"notes":"","dateAdded":"2023-11-14T22:13:20.500Z"}
]`

func TestRepairEntries(t *testing.T) {
	in := []domain.LibraryEntry{
		{ID: 10, BookRecord: domain.BookRecord{SourceID: "A"}},
		{ID: 10, BookRecord: domain.BookRecord{SourceID: "B"}},
		{ID: 20, BookRecord: domain.BookRecord{SourceID: ""}},
		{ID: 30, BookRecord: domain.BookRecord{SourceID: "A"}},
		{ID: 40, BookRecord: domain.BookRecord{SourceID: "C"}},
	}

	out, repairs := repairEntries(in)

	assert.Equal(t, 3, repairs)
	require.Len(t, out, 4)
	assert.Equal(t, []int64{10, 11, 20, 40}, []int64{out[0].ID, out[1].ID, out[2].ID, out[3].ID})
	assert.Equal(t, "B", out[1].SourceID)
	assert.Equal(t, "local-20", out[2].SourceID)
	assert.Equal(t, "C", out[3].SourceID)

	clean, repairs := repairEntries(out)
	assert.Zero(t, repairs)
	assert.Equal(t, out, clean)
}

func TestEncodeEntries_Envelope(t *testing.T) {
	data, err := encodeEntries(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"entries":[]}`, string(data))
}

func TestDecodeEntries(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		in := []domain.LibraryEntry{{
			ID:         1700000000000,
			BookRecord: record("A", "Fiction"),
			IsLiked:    true,
			Progress:   40,
			Status:     domain.StatusReading,
			DateAdded:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		}}
		data, err := encodeEntries(in)
		require.NoError(t, err)

		out, err := decodeEntries(data)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("legacy bare array", func(t *testing.T) {
		out, err := decodeEntries([]byte(legacyLibrary))
		require.NoError(t, err)
		require.Len(t, out, 2)

		dune := out[0]
		assert.Equal(t, int64(1700000000000), dune.ID)
		assert.Equal(t, "A1", dune.SourceID)
		assert.Equal(t, "Dune", dune.Title)
		assert.Equal(t, 412, dune.PageCount)
		assert.Equal(t, 4.5, dune.AverageRating)
		assert.Equal(t, 120, dune.RatingsCount)
		assert.Equal(t, "https://books.example/dune", dune.PreviewLink)
		assert.True(t, dune.IsLiked)
		assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), dune.DateAdded.UTC())
		// Missing status is derived from progress
		assert.Equal(t, domain.StatusUnread, dune.Status)

		unknown := out[1]
		assert.Equal(t, "B2", unknown.SourceID)
		assert.Equal(t, 0, unknown.PageCount)
		assert.Equal(t, "Unknown", unknown.FormattedPageCount())
		assert.Empty(t, unknown.PreviewLink)
		assert.Zero(t, unknown.AverageRating)
	})

	t.Run("numeric strings in legacy entries", func(t *testing.T) {
		out, err := decodeEntries([]byte(`[{"id":1,"googleId":"A","pageCount":"320","ratingsCount":null}]`))
		require.NoError(t, err)
		assert.Equal(t, 320, out[0].PageCount)
		assert.Equal(t, 0, out[0].RatingsCount)
	})

	t.Run("status derived for legacy progress", func(t *testing.T) {
		out, err := decodeEntries([]byte(`[{"id":1,"progress":100},{"id":2,"progress":250},{"id":3,"progress":10}]`))
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, out[0].Status)
		assert.Equal(t, 100, out[1].Progress)
		assert.Equal(t, domain.StatusReading, out[2].Status)
	})

	t.Run("null entries", func(t *testing.T) {
		out, err := decodeEntries([]byte(`{"version":1,"entries":null}`))
		require.NoError(t, err)
		assert.NotNil(t, out)
		assert.Empty(t, out)
	})

	malformed := map[string]string{
		"garbage":         `not json`,
		"whitespace":      "  \n ",
		"wrong type":      `{"version":1,"entries":{"id":1}}`,
		"missing version": `{"entries":[]}`,
		"future version":  `{"version":2,"entries":[]}`,
		"truncated":       `[{"id":1,`,
	}
	for name, blob := range malformed {
		t.Run(name, func(t *testing.T) {
			_, err := decodeEntries([]byte(blob))
			assert.ErrorIs(t, err, domain.ErrMalformedState)
		})
	}
}
