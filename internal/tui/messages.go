package tui

import "github.com/mmcdole/shelf/internal/domain"

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// SearchResultsMsg carries catalog results for the search numbered Seq
type SearchResultsMsg struct {
	Seq     uint64
	Query   string
	Genre   string
	Results []domain.BookRecord
}

// BestsellersLoadedMsg carries the curated list
type BestsellersLoadedMsg struct {
	Books []domain.RawRecord
}

// ReviewsLoadedMsg carries reviews for one library entry
type ReviewsLoadedMsg struct {
	EntryID int64
	Title   string
	Reviews []domain.RawRecord
}

// EntryAddedMsg signals that a search result was saved
type EntryAddedMsg struct {
	Entry domain.LibraryEntry
}

// LibraryChangedMsg is delivered for every persisted library mutation
type LibraryChangedMsg struct {
	Event domain.ChangeEvent
}

// LinkOpenedMsg signals that a preview link was handed to the browser
type LinkOpenedMsg struct {
	URL string
}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status bar message if it is still message Seq
type ClearStatusMsg struct {
	Seq uint64
}
