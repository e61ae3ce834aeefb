package library

import (
	"bytes"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/mmcdole/shelf/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// formatVersion is the current on-disk envelope version
const formatVersion = 1

// envelope is the persisted shape: {"version":1,"entries":[...]}
type envelope struct {
	Version int                   `json:"version"`
	Entries []domain.LibraryEntry `json:"entries"`
}

func encodeEntries(entries []domain.LibraryEntry) ([]byte, error) {
	if entries == nil {
		entries = []domain.LibraryEntry{}
	}
	return json.Marshal(envelope{Version: formatVersion, Entries: entries})
}

// decodeEntries accepts the versioned envelope or a legacy bare array of
// entries (the unversioned format). Any decode failure or unsupported
// version is reported as domain.ErrMalformedState.
func decodeEntries(data []byte) ([]domain.LibraryEntry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty blob", domain.ErrMalformedState)
	}

	var entries []domain.LibraryEntry
	if trimmed[0] == '[' {
		var legacy []legacyEntry
		if err := json.Unmarshal(trimmed, &legacy); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedState, err)
		}
		entries = make([]domain.LibraryEntry, len(legacy))
		for i, l := range legacy {
			entries[i] = l.toEntry()
		}
	} else {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedState, err)
		}
		if env.Version < 1 || env.Version > formatVersion {
			return nil, fmt.Errorf("%w: unsupported version %d", domain.ErrMalformedState, env.Version)
		}
		entries = env.Entries
	}

	if entries == nil {
		entries = []domain.LibraryEntry{}
	}
	for i := range entries {
		sanitizeEntry(&entries[i])
	}
	return entries, nil
}

// legacyEntry is one element of the unversioned array. The de-dup key was
// stored as googleId, and pageCount holds "Unknown" when the catalog had none.
type legacyEntry struct {
	ID            int64                `json:"id"`
	GoogleID      string               `json:"googleId"`
	SourceID      string               `json:"sourceId"`
	Title         string               `json:"title"`
	Author        string               `json:"author"`
	Genre         string               `json:"genre"`
	CoverURL      string               `json:"coverUrl"`
	Description   string               `json:"description"`
	PageCount     looseNumber          `json:"pageCount"`
	PublishedDate string               `json:"publishedDate"`
	AverageRating looseNumber          `json:"averageRating"`
	RatingsCount  looseNumber          `json:"ratingsCount"`
	PreviewLink   string               `json:"previewLink"`
	ISBN          string               `json:"isbn"`
	IsLiked       bool                 `json:"isLiked"`
	Progress      looseNumber          `json:"progress"`
	Status        domain.ReadingStatus `json:"status"`
	Notes         string               `json:"notes"`
	DateAdded     time.Time            `json:"dateAdded"`
}

func (l legacyEntry) toEntry() domain.LibraryEntry {
	sourceID := l.SourceID
	if sourceID == "" {
		sourceID = l.GoogleID
	}
	return domain.LibraryEntry{
		ID: l.ID,
		BookRecord: domain.BookRecord{
			SourceID:      sourceID,
			Title:         l.Title,
			Author:        l.Author,
			Genre:         l.Genre,
			CoverURL:      l.CoverURL,
			Description:   l.Description,
			PageCount:     int(l.PageCount),
			PublishedDate: l.PublishedDate,
			AverageRating: float64(l.AverageRating),
			RatingsCount:  int(l.RatingsCount),
			PreviewLink:   l.PreviewLink,
			ISBN:          l.ISBN,
		},
		IsLiked:   l.IsLiked,
		Progress:  int(l.Progress),
		Status:    l.Status,
		Notes:     l.Notes,
		DateAdded: l.DateAdded,
	}
}

// looseNumber decodes a JSON number, a numeric string, or anything else as 0
type looseNumber float64

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	*n = looseNumber(jsoniter.Get(data).ToFloat64())
	return nil
}

// repairEntries enforces the store invariants on a decoded list: ids strictly
// increase in list order, and every SourceID is present and unique. Later
// duplicates of a SourceID are dropped. Returns the number of entries changed
// or dropped.
func repairEntries(entries []domain.LibraryEntry) ([]domain.LibraryEntry, int) {
	out := make([]domain.LibraryEntry, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	var lastID int64
	repairs := 0

	for _, e := range entries {
		changed := false
		if e.ID <= lastID {
			e.ID = lastID + 1
			changed = true
		}
		if e.SourceID == "" {
			e.SourceID = fmt.Sprintf("local-%d", e.ID)
			changed = true
		}
		if seen[e.SourceID] {
			repairs++
			continue
		}
		if changed {
			repairs++
		}
		seen[e.SourceID] = true
		lastID = e.ID
		out = append(out, e)
	}
	return out, repairs
}

// sanitizeEntry repairs fields older formats did not carry
func sanitizeEntry(e *domain.LibraryEntry) {
	e.Progress = clampProgress(e.Progress)
	if e.Status.Valid() {
		return
	}
	switch {
	case e.Progress == 100:
		e.Status = domain.StatusCompleted
	case e.Progress > 0:
		e.Status = domain.StatusReading
	default:
		e.Status = domain.StatusUnread
	}
}
