package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/shelf/internal/domain"
)

// Command factories for async operations

// requestTimeout bounds every network command on top of the façade's own deadline
const requestTimeout = 30 * time.Second

// SearchCmd runs a catalog search tagged with seq
func SearchCmd(books BookQueries, seq uint64, query, genre string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		results := books.Search(ctx, query, genre)
		return SearchResultsMsg{Seq: seq, Query: query, Genre: genre, Results: results}
	}
}

// FetchBestsellersCmd loads the curated list
func FetchBestsellersCmd(books BookQueries) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return BestsellersLoadedMsg{Books: books.FetchCuratedList(ctx)}
	}
}

// FetchReviewsCmd loads reviews for a library entry
func FetchReviewsCmd(books BookQueries, entry domain.LibraryEntry) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return ReviewsLoadedMsg{
			EntryID: entry.ID,
			Title:   entry.Title,
			Reviews: books.FetchReviews(ctx, entry.ISBN),
		}
	}
}

// AddEntryCmd saves a search result to the library
func AddEntryCmd(lib LibraryStore, record domain.BookRecord) tea.Cmd {
	return func() tea.Msg {
		entry, err := lib.Add(record)
		if err != nil {
			return ErrMsg{Err: err, Context: fmt.Sprintf("adding %q", record.Title)}
		}
		return EntryAddedMsg{Entry: entry}
	}
}

// ToggleLikeCmd flips the liked flag of an entry
func ToggleLikeCmd(lib LibraryStore, id int64) tea.Cmd {
	return func() tea.Msg {
		if _, err := lib.ToggleLike(id); err != nil {
			return ErrMsg{Err: err, Context: "toggling like"}
		}
		return nil
	}
}

// UpdateProgressCmd sets the reading progress of an entry
func UpdateProgressCmd(lib LibraryStore, id int64, progress int) tea.Cmd {
	return func() tea.Msg {
		if _, err := lib.UpdateProgress(id, progress); err != nil {
			return ErrMsg{Err: err, Context: "updating progress"}
		}
		return nil
	}
}

// OpenLinkCmd opens a preview link in the browser
func OpenLinkCmd(opener LinkOpener, url string) tea.Cmd {
	return func() tea.Msg {
		if err := opener.Launch(url); err != nil {
			return ErrMsg{Err: err, Context: "opening preview"}
		}
		return LinkOpenedMsg{URL: url}
	}
}

// ClearStatusCmd returns a command that clears status message seq after a delay
func ClearStatusCmd(seq uint64, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
