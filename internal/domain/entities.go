package domain

import (
	"fmt"
	"strconv"
	"time"
)

// Defaults substituted by catalog normalization when the provider omits a field
const (
	DefaultTitle         = "Untitled"
	DefaultAuthor        = "Unknown Author"
	DefaultGenre         = "Uncategorized"
	DefaultCoverURL      = "https://via.placeholder.com/128x192?text=No+Cover"
	DefaultDescription   = "No description available"
	DefaultPublishedDate = "Unknown"
)

// BookRecord is a normalized catalog search result.
// It is transient: the caller owns it until it is handed to the library store.
type BookRecord struct {
	SourceID      string  `json:"sourceId"`      // Catalog volume ID (de-dup key)
	Title         string  `json:"title"`         // Never empty
	Author        string  `json:"author"`        // First listed author, never empty
	Genre         string  `json:"genre"`         // First listed category, never empty
	CoverURL      string  `json:"coverUrl"`      // Thumbnail or placeholder
	Description   string  `json:"description"`   // Synopsis
	PageCount     int     `json:"pageCount"`     // 0 = unknown
	PublishedDate string  `json:"publishedDate"` // Provider format, e.g. "1965-08-01"
	AverageRating float64 `json:"averageRating"` // 0-5 scale, 0 = unrated
	RatingsCount  int     `json:"ratingsCount"`
	PreviewLink   string  `json:"previewLink,omitempty"` // Empty = no preview
	ISBN          string  `json:"isbn,omitempty"`        // ISBN-13 preferred
}

// FormattedPageCount returns the page count or "Unknown"
func (b BookRecord) FormattedPageCount() string {
	if b.PageCount <= 0 {
		return "Unknown"
	}
	return strconv.Itoa(b.PageCount)
}

// FormattedRating returns "4.5/5 (120 ratings)" or "" when unrated
func (b BookRecord) FormattedRating() string {
	if b.AverageRating <= 0 {
		return ""
	}
	return fmt.Sprintf("%.1f/5 (%d ratings)", b.AverageRating, b.RatingsCount)
}

// ReadingStatus tracks how far the user is through a saved book
type ReadingStatus string

const (
	StatusUnread    ReadingStatus = "unread"
	StatusReading   ReadingStatus = "reading"
	StatusCompleted ReadingStatus = "completed"
)

// Valid reports whether s is one of the known statuses
func (s ReadingStatus) Valid() bool {
	switch s {
	case StatusUnread, StatusReading, StatusCompleted:
		return true
	default:
		return false
	}
}

// LibraryEntry is a saved book. Only the library store creates or mutates entries.
type LibraryEntry struct {
	ID int64 `json:"id"` // Creation-time derived, strictly increasing, never reused

	BookRecord

	IsLiked   bool          `json:"isLiked"`
	Progress  int           `json:"progress"` // 0-100
	Status    ReadingStatus `json:"status"`
	Notes     string        `json:"notes"`
	DateAdded time.Time     `json:"dateAdded"`
}

// RawRecord is a provider object passed through without reshaping.
// Used for bestseller and review data, which is display-only and never persisted.
type RawRecord map[string]any

// String returns the string value at key, or "" if missing or not a string
func (r RawRecord) String(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// Int returns the numeric value at key truncated to int, or 0
func (r RawRecord) Int(key string) int {
	switch v := r[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}
