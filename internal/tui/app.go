package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/search"
)

// Pane identifies one of the top-level panes
type Pane int

const (
	PaneSearch Pane = iota
	PaneLibrary
	PaneBestsellers
	PaneReviews
	paneCount
)

func (p Pane) String() string {
	switch p {
	case PaneSearch:
		return "Search"
	case PaneLibrary:
		return "Library"
	case PaneBestsellers:
		return "Bestsellers"
	case PaneReviews:
		return "Reviews"
	default:
		return "?"
	}
}

// inputFocus tracks which text input receives keystrokes
type inputFocus int

const (
	focusNone inputFocus = iota
	focusQuery
	focusGenre
	focusFilter
)

const statusTimeout = 3 * time.Second

// LibraryStore is the subset of the library store the UI drives
type LibraryStore interface {
	Add(record domain.BookRecord) (domain.LibraryEntry, error)
	ToggleLike(id int64) (bool, error)
	UpdateProgress(id int64, progress int) (domain.LibraryEntry, error)
	ListByGenre(genre string, likedOnly bool) []domain.LibraryEntry
	RecommendationsByGenre(genre string) []domain.LibraryEntry
	Genres() []string
}

// BookQueries is the provider façade (implemented by query.Service)
type BookQueries interface {
	Search(ctx context.Context, query, genre string) []domain.BookRecord
	FetchCuratedList(ctx context.Context) []domain.RawRecord
	FetchReviews(ctx context.Context, isbn string) []domain.RawRecord
}

// LinkOpener opens a URL outside the terminal (implemented by adapter.Launcher)
type LinkOpener interface {
	Launch(url string) error
}

// Deps wires the model to the application services
type Deps struct {
	Library         LibraryStore
	Books           BookQueries
	Opener          LinkOpener
	Changes         <-chan domain.ChangeEvent // From a ChannelObserver subscribed to Library
	ShowBestsellers bool
	Logger          *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	Keys     KeyMap
	Pane     Pane
	Width    int
	Height   int
	ShowHelp bool

	// Services
	library         LibraryStore
	books           BookQueries
	opener          LinkOpener
	changes         <-chan domain.ChangeEvent
	showBestsellers bool
	logger          *slog.Logger

	// Inputs
	focus            inputFocus
	queryInput       textinput.Model
	genreInput       textinput.Model
	filterInput      textinput.Model
	genreSuggestions []string

	// Search pane
	searchSeq    uint64 // Sequence number of the latest search; older results are dropped
	Searching    bool
	Results      []domain.BookRecord
	resultCursor int

	// Library pane
	Entries        []domain.LibraryEntry
	libraryCursor  int
	LikedOnly      bool
	GenreFilter    string
	RecommendGenre string // Non-empty = showing recommendations instead of the filtered list
	FilterQuery    string
	titleMatches   map[int64][]int // Entry ID -> matched title offsets while filtering
	genres         []string

	// Bestsellers pane
	Bestsellers        []domain.RawRecord
	bestsellerCursor   int
	LoadingBestsellers bool

	// Reviews pane
	Reviews        []domain.RawRecord
	ReviewsTitle   string
	reviewsEntryID int64
	reviewCursor   int
	LoadingReviews bool

	// Status bar
	StatusMsg   string
	StatusIsErr bool
	statusSeq   uint64 // Bumped per message so an older clear tick is ignored
}

// NewModel creates a new application model
func NewModel(deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := Model{
		Keys:            DefaultKeyMap(),
		Pane:            PaneSearch,
		library:         deps.Library,
		books:           deps.Books,
		opener:          deps.Opener,
		changes:         deps.Changes,
		showBestsellers: deps.ShowBestsellers,
		logger:          logger,
		queryInput:      newInput("title, author, keywords", 120),
		genreInput:      newInput("any genre", 60),
		filterInput:     newInput("filter saved books", 60),
	}
	m.LoadingBestsellers = m.showBestsellers && m.books != nil
	m.refreshLibrary()
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	return ti
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{WaitForChangeCmd(m.changes)}
	if m.LoadingBestsellers {
		cmds = append(cmds, FetchBestsellersCmd(m.books))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.queryInput.Width = max(10, msg.Width-12)
		m.genreInput.Width = max(10, msg.Width-12)
		m.filterInput.Width = max(10, msg.Width-12)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case SearchResultsMsg:
		if msg.Seq != m.searchSeq {
			m.logger.Debug("dropping stale search results", "seq", msg.Seq, "latest", m.searchSeq)
			return m, nil
		}
		m.Searching = false
		m.Results = msg.Results
		m.resultCursor = 0
		if len(msg.Results) == 0 {
			return m, m.setStatus(fmt.Sprintf("No results for %q", msg.Query), false)
		}
		return m, m.setStatus(fmt.Sprintf("%d results for %q", len(msg.Results), msg.Query), false)

	case BestsellersLoadedMsg:
		m.LoadingBestsellers = false
		m.Bestsellers = msg.Books
		m.bestsellerCursor = 0
		return m, nil

	case ReviewsLoadedMsg:
		if msg.EntryID != m.reviewsEntryID {
			return m, nil
		}
		m.LoadingReviews = false
		m.Reviews = msg.Reviews
		m.ReviewsTitle = msg.Title
		m.reviewCursor = 0
		return m, nil

	case EntryAddedMsg:
		return m, m.setStatus(fmt.Sprintf("Added %q to your library", msg.Entry.Title), false)

	case LibraryChangedMsg:
		m.refreshLibrary()
		return m, WaitForChangeCmd(m.changes)

	case LinkOpenedMsg:
		return m, m.setStatus("Opened preview in browser", false)

	case ErrMsg:
		m.logger.Error("ui action failed", "context", msg.Context, "error", msg.Err)
		return m, m.setStatus(describeError(msg), true)

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		if msg.Seq != m.statusSeq {
			return m, nil
		}
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

// describeError turns store outcomes into user-facing text
func describeError(msg ErrMsg) string {
	switch {
	case errors.Is(msg.Err, domain.ErrDuplicate):
		return "That book is already in your library"
	case errors.Is(msg.Err, domain.ErrEntryNotFound):
		return "That book is no longer in your library"
	default:
		return msg.Error()
	}
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(m.statusSeq, statusTimeout)
}

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.focus != focusNone {
		return m.handleInputKey(msg)
	}

	if m.ShowHelp {
		if key.Matches(msg, m.Keys.Escape, m.Keys.Help, m.Keys.Quit) {
			m.ShowHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Help):
		m.ShowHelp = true
		return m, nil
	case key.Matches(msg, m.Keys.NextPane):
		m.Pane = (m.Pane + 1) % paneCount
		return m, nil
	case key.Matches(msg, m.Keys.PrevPane):
		m.Pane = (m.Pane + paneCount - 1) % paneCount
		return m, nil
	case key.Matches(msg, m.Keys.Up):
		m.moveCursor(-1)
		return m, nil
	case key.Matches(msg, m.Keys.Down):
		m.moveCursor(1)
		return m, nil
	case key.Matches(msg, m.Keys.Home):
		m.moveCursor(-m.listLen())
		return m, nil
	case key.Matches(msg, m.Keys.End):
		m.moveCursor(m.listLen())
		return m, nil
	}

	switch m.Pane {
	case PaneSearch:
		return m.handleSearchKey(msg)
	case PaneLibrary:
		return m.handleLibraryKey(msg)
	case PaneBestsellers:
		return m.handleBestsellersKey(msg)
	case PaneReviews:
		return m.handleReviewsKey(msg)
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.FocusQuery, m.Keys.Filter):
		return m, m.focusInput(focusQuery)

	case key.Matches(msg, m.Keys.FocusGenre):
		return m, m.focusInput(focusGenre)

	case key.Matches(msg, m.Keys.Add, m.Keys.Enter):
		record, ok := m.selectedResult()
		if !ok || m.library == nil {
			return m, nil
		}
		return m, AddEntryCmd(m.library, record)

	case key.Matches(msg, m.Keys.OpenLink):
		record, ok := m.selectedResult()
		if !ok {
			return m, nil
		}
		return m, m.openLink(record.PreviewLink)
	}
	return m, nil
}

func (m Model) handleLibraryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Filter):
		return m, m.focusInput(focusFilter)

	case key.Matches(msg, m.Keys.LikedOnly):
		m.LikedOnly = !m.LikedOnly
		m.refreshLibrary()
		return m, nil

	case key.Matches(msg, m.Keys.CycleGenre):
		m.GenreFilter = nextGenre(m.genres, m.GenreFilter)
		m.refreshLibrary()
		return m, nil

	case key.Matches(msg, m.Keys.Escape):
		switch {
		case m.RecommendGenre != "":
			m.RecommendGenre = ""
		case m.FilterQuery != "":
			m.FilterQuery = ""
			m.filterInput.SetValue("")
		default:
			m.GenreFilter = ""
			m.LikedOnly = false
		}
		m.refreshLibrary()
		return m, nil
	}

	entry, ok := m.selectedEntry()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.Keys.Like):
		return m, ToggleLikeCmd(m.library, entry.ID)

	case key.Matches(msg, m.Keys.ProgressUp):
		return m, UpdateProgressCmd(m.library, entry.ID, entry.Progress+10)

	case key.Matches(msg, m.Keys.ProgressDown):
		return m, UpdateProgressCmd(m.library, entry.ID, entry.Progress-10)

	case key.Matches(msg, m.Keys.Complete):
		return m, UpdateProgressCmd(m.library, entry.ID, 100)

	case key.Matches(msg, m.Keys.Recommend):
		if m.RecommendGenre != "" {
			m.RecommendGenre = ""
		} else {
			m.RecommendGenre = entry.Genre
		}
		m.refreshLibrary()
		return m, nil

	case key.Matches(msg, m.Keys.ShowReviews, m.Keys.Enter):
		return m, m.loadReviews(entry)

	case key.Matches(msg, m.Keys.OpenLink):
		return m, m.openLink(entry.PreviewLink)
	}
	return m, nil
}

func (m Model) handleBestsellersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Enter):
		if m.bestsellerCursor >= len(m.Bestsellers) {
			return m, nil
		}
		book := m.Bestsellers[m.bestsellerCursor]
		title := book.String("title")
		if title == "" {
			return m, nil
		}
		m.queryInput.SetValue(strings.TrimSpace(title + " " + book.String("author")))
		m.genreInput.SetValue("")
		m.Pane = PaneSearch
		return m, m.startSearch()

	case key.Matches(msg, m.Keys.RefreshCurated):
		if m.books == nil {
			return m, nil
		}
		m.LoadingBestsellers = true
		return m, FetchBestsellersCmd(m.books)
	}
	return m, nil
}

func (m Model) handleReviewsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.Keys.OpenLink, m.Keys.Enter) && m.reviewCursor < len(m.Reviews) {
		return m, m.openLink(m.Reviews[m.reviewCursor].String("url"))
	}
	return m, nil
}

// handleInputKey routes keys to the focused text input
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Escape):
		if m.focus == focusFilter {
			m.FilterQuery = ""
			m.filterInput.SetValue("")
			m.refreshLibrary()
		}
		m.blurInputs()
		return m, nil

	case key.Matches(msg, m.Keys.Enter):
		wasFilter := m.focus == focusFilter
		m.blurInputs()
		if wasFilter {
			return m, nil
		}
		return m, m.startSearch()

	case key.Matches(msg, m.Keys.NextPane):
		switch m.focus {
		case focusQuery:
			return m, m.focusInput(focusGenre)
		case focusGenre:
			if len(m.genreSuggestions) > 0 && m.genreInput.Value() != m.genreSuggestions[0] {
				m.genreInput.SetValue(m.genreSuggestions[0])
				m.genreInput.CursorEnd()
				m.updateGenreSuggestions()
				return m, nil
			}
			return m, m.focusInput(focusQuery)
		}
		return m, nil

	case key.Matches(msg, m.Keys.PrevPane):
		if m.focus == focusGenre {
			return m, m.focusInput(focusQuery)
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusQuery:
		m.queryInput, cmd = m.queryInput.Update(msg)
	case focusGenre:
		m.genreInput, cmd = m.genreInput.Update(msg)
		m.updateGenreSuggestions()
	case focusFilter:
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.FilterQuery = m.filterInput.Value()
		m.refreshLibrary()
	}
	return m, cmd
}

func (m *Model) focusInput(f inputFocus) tea.Cmd {
	m.blurInputs()
	m.focus = f
	switch f {
	case focusQuery:
		return m.queryInput.Focus()
	case focusGenre:
		m.updateGenreSuggestions()
		return m.genreInput.Focus()
	case focusFilter:
		return m.filterInput.Focus()
	}
	return nil
}

func (m *Model) blurInputs() {
	m.focus = focusNone
	m.queryInput.Blur()
	m.genreInput.Blur()
	m.filterInput.Blur()
	m.genreSuggestions = nil
}

func (m *Model) updateGenreSuggestions() {
	partial := strings.TrimSpace(m.genreInput.Value())
	if partial == "" {
		m.genreSuggestions = nil
		return
	}
	m.genreSuggestions = search.SuggestGenres(partial, m.genres)
}

// startSearch issues a catalog search and bumps the sequence number so
// responses to earlier searches are ignored
func (m *Model) startSearch() tea.Cmd {
	query := strings.TrimSpace(m.queryInput.Value())
	if query == "" {
		return m.setStatus("Type something to search for", false)
	}
	if m.books == nil {
		return nil
	}
	m.searchSeq++
	m.Searching = true
	return SearchCmd(m.books, m.searchSeq, query, strings.TrimSpace(m.genreInput.Value()))
}

func (m *Model) loadReviews(entry domain.LibraryEntry) tea.Cmd {
	if entry.ISBN == "" {
		return m.setStatus("No ISBN known for this book", true)
	}
	if m.books == nil {
		return nil
	}
	m.reviewsEntryID = entry.ID
	m.ReviewsTitle = entry.Title
	m.Reviews = nil
	m.LoadingReviews = true
	m.Pane = PaneReviews
	return FetchReviewsCmd(m.books, entry)
}

func (m *Model) openLink(link string) tea.Cmd {
	if strings.TrimSpace(link) == "" {
		return m.setStatus("No preview available", true)
	}
	if m.opener == nil {
		return nil
	}
	return OpenLinkCmd(m.opener, link)
}

// refreshLibrary re-reads the library view, keeping the selected entry
// under the cursor when it is still visible
func (m *Model) refreshLibrary() {
	if m.library == nil {
		return
	}

	var selectedID int64
	if e, ok := m.selectedEntry(); ok {
		selectedID = e.ID
	}

	var entries []domain.LibraryEntry
	if m.RecommendGenre != "" {
		entries = m.library.RecommendationsByGenre(m.RecommendGenre)
	} else {
		entries = m.library.ListByGenre(m.GenreFilter, m.LikedOnly)
	}
	m.Entries, m.titleMatches = entries, nil
	if strings.TrimSpace(m.FilterQuery) != "" {
		results := search.NewEntryIndex(entries).Find(m.FilterQuery)
		m.Entries = make([]domain.LibraryEntry, len(results))
		m.titleMatches = make(map[int64][]int, len(results))
		for i, r := range results {
			m.Entries[i] = r.Entry
			m.titleMatches[r.Entry.ID] = r.MatchedIndexes
		}
	}
	m.genres = m.library.Genres()

	m.libraryCursor = clampCursor(m.libraryCursor, len(m.Entries))
	for i, e := range m.Entries {
		if e.ID == selectedID {
			m.libraryCursor = i
			break
		}
	}
}

func (m Model) selectedResult() (domain.BookRecord, bool) {
	if m.resultCursor < 0 || m.resultCursor >= len(m.Results) {
		return domain.BookRecord{}, false
	}
	return m.Results[m.resultCursor], true
}

func (m Model) selectedEntry() (domain.LibraryEntry, bool) {
	if m.libraryCursor < 0 || m.libraryCursor >= len(m.Entries) {
		return domain.LibraryEntry{}, false
	}
	return m.Entries[m.libraryCursor], true
}

func (m Model) listLen() int {
	switch m.Pane {
	case PaneSearch:
		return len(m.Results)
	case PaneLibrary:
		return len(m.Entries)
	case PaneBestsellers:
		return len(m.Bestsellers)
	case PaneReviews:
		return len(m.Reviews)
	}
	return 0
}

func (m *Model) moveCursor(delta int) {
	n := m.listLen()
	switch m.Pane {
	case PaneSearch:
		m.resultCursor = clampCursor(m.resultCursor+delta, n)
	case PaneLibrary:
		m.libraryCursor = clampCursor(m.libraryCursor+delta, n)
	case PaneBestsellers:
		m.bestsellerCursor = clampCursor(m.bestsellerCursor+delta, n)
	case PaneReviews:
		m.reviewCursor = clampCursor(m.reviewCursor+delta, n)
	}
}

func clampCursor(cursor, n int) int {
	if n == 0 {
		return 0
	}
	return max(0, min(cursor, n-1))
}

// nextGenre cycles "" -> genres[0] -> ... -> genres[n-1] -> ""
func nextGenre(genres []string, current string) string {
	if current == "" {
		if len(genres) == 0 {
			return ""
		}
		return genres[0]
	}
	for i, g := range genres {
		if g == current && i+1 < len(genres) {
			return genres[i+1]
		}
	}
	return ""
}
