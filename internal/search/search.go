package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/shelf/internal/domain"
	sfuzzy "github.com/sahilm/fuzzy"
)

// FilterResult is a library entry that matched a filter query
type FilterResult struct {
	Entry          domain.LibraryEntry
	MatchedIndexes []int // Byte offsets in Entry.Title, for highlighting
}

// EntryIndex implements sahilm/fuzzy.Source over library entries.
// Each entry is searchable by title, then author.
type EntryIndex struct {
	entries []domain.LibraryEntry
	keys    []string // Pre-computed lowercase "title author"
}

// NewEntryIndex builds an index over entries
func NewEntryIndex(entries []domain.LibraryEntry) *EntryIndex {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = strings.ToLower(e.Title + " " + e.Author)
	}
	return &EntryIndex{entries: entries, keys: keys}
}

// String returns the searchable key at index i (implements fuzzy.Source)
func (idx *EntryIndex) String(i int) string { return idx.keys[i] }

// Len returns the number of entries (implements fuzzy.Source)
func (idx *EntryIndex) Len() int { return len(idx.entries) }

// Find returns matching entries, best match first by sahilm/fuzzy score
func (idx *EntryIndex) Find(query string) []FilterResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		results := make([]FilterResult, len(idx.entries))
		for i, e := range idx.entries {
			results[i] = FilterResult{Entry: e}
		}
		return results
	}

	matches := sfuzzy.FindFrom(query, idx)
	results := make([]FilterResult, 0, len(matches))
	for _, m := range matches {
		entry := idx.entries[m.Index]
		results = append(results, FilterResult{
			Entry:          entry,
			MatchedIndexes: titleIndexes(m.MatchedIndexes, len(entry.Title)),
		})
	}
	return results
}

// FilterEntries narrows entries to those whose title or author fuzzily
// matches query. A blank query returns entries unchanged.
func FilterEntries(query string, entries []domain.LibraryEntry) []domain.LibraryEntry {
	if strings.TrimSpace(query) == "" {
		return entries
	}

	results := NewEntryIndex(entries).Find(query)
	filtered := make([]domain.LibraryEntry, len(results))
	for i, r := range results {
		filtered[i] = r.Entry
	}
	return filtered
}

// SuggestGenres ranks known genres against a partially typed one.
// A blank partial returns every genre in its original order.
func SuggestGenres(partial string, genres []string) []string {
	partial = strings.TrimSpace(partial)
	if partial == "" {
		return append([]string(nil), genres...)
	}

	ranks := fuzzy.RankFindFold(partial, genres)
	sort.Stable(ranks)

	suggestions := make([]string, len(ranks))
	for i, r := range ranks {
		suggestions[i] = r.Target
	}
	return suggestions
}

// titleIndexes keeps only the byte positions that fall inside the title
func titleIndexes(indexes []int, titleLen int) []int {
	var out []int
	for _, i := range indexes {
		if i < titleLen {
			out = append(out, i)
		}
	}
	return out
}
