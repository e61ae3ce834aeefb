package library

import (
	"sort"

	"github.com/mmcdole/shelf/internal/domain"
)

// Read-side operations. All return copies; callers never see the live list.

// Get returns the entry with the given ID
func (s *Store) Get(id int64) (domain.LibraryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexLocked(id); idx >= 0 {
		return s.entries[idx], nil
	}
	return domain.LibraryEntry{}, domain.ErrEntryNotFound
}

// Entries returns the full list in insertion order
func (s *Store) Entries() []domain.LibraryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Len returns the number of saved entries
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// ListByGenre returns entries matching genre (empty = any genre), restricted
// to liked entries when likedOnly is set. The two predicates are independent,
// so the order they are applied in does not change the result. Insertion
// order is preserved.
func (s *Store) ListByGenre(genre string, likedOnly bool) []domain.LibraryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.LibraryEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if likedOnly && !e.IsLiked {
			continue
		}
		if genre != "" && e.Genre != genre {
			continue
		}
		out = append(out, e)
	}
	return out
}

// RecommendationsByGenre returns completed entries in genre, highest progress
// first. Ties keep insertion order.
func (s *Store) RecommendationsByGenre(genre string) []domain.LibraryEntry {
	s.mu.RLock()
	out := make([]domain.LibraryEntry, 0)
	for _, e := range s.entries {
		if e.Genre == genre && e.Status == domain.StatusCompleted {
			out = append(out, e)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Progress > out[j].Progress
	})
	return out
}

// Genres returns the distinct genres in the library in first-seen order
func (s *Store) Genres() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var genres []string
	for _, e := range s.entries {
		if !seen[e.Genre] {
			seen[e.Genre] = true
			genres = append(genres, e.Genre)
		}
	}
	return genres
}
