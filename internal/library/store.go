package library

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/shelf/internal/domain"
)

// Store is the single source of truth for saved books.
// Every mutation persists the entire list through the BlobStore before returning.
type Store struct {
	blobs  domain.BlobStore
	logger *slog.Logger
	now    func() time.Time
	strict bool

	// mu is held for the whole lookup -> mutate -> persist sequence of a mutation,
	// so at most one mutation is in flight per store.
	mu      sync.RWMutex
	entries []domain.LibraryEntry
	lastID  int64

	obsMu     sync.Mutex
	observers map[int]domain.ChangeObserver
	nextObsID int
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger (default slog.Default())
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for IDs and DateAdded
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStrictLoad makes New fail with domain.ErrMalformedState instead of
// discarding an undecodable blob.
func WithStrictLoad() Option {
	return func(s *Store) { s.strict = true }
}

// New creates a store and loads the previously persisted library.
// A missing blob starts an empty library. A malformed blob is discarded
// (logged) unless WithStrictLoad is set. Storage read errors are returned.
func New(blobs domain.BlobStore, opts ...Option) (*Store, error) {
	s := &Store{
		blobs:     blobs,
		logger:    slog.Default(),
		now:       time.Now,
		entries:   []domain.LibraryEntry{},
		observers: make(map[int]domain.ChangeObserver),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, ok, err := s.blobs.Load()
	if err != nil {
		return fmt.Errorf("failed to load library: %w", err)
	}
	if !ok || len(data) == 0 {
		s.logger.Debug("no persisted library, starting empty")
		return nil
	}

	entries, err := decodeEntries(data)
	if err != nil {
		if s.strict {
			return err
		}
		s.logger.Warn("discarding malformed library", "error", err, "bytes", len(data))
		return nil
	}

	entries, repairs := repairEntries(entries)
	if repairs > 0 {
		s.logger.Warn("repaired persisted library", "repaired", repairs, "count", len(entries))
	}

	s.entries = entries
	for _, e := range entries {
		if e.ID > s.lastID {
			s.lastID = e.ID
		}
	}
	s.logger.Debug("loaded library", "count", len(entries))
	return nil
}

// Add saves a catalog record as a new entry.
// Returns domain.ErrDuplicate if an entry with the same SourceID exists.
func (s *Store) Add(record domain.BookRecord) (domain.LibraryEntry, error) {
	s.mu.Lock()

	// Linear scan; libraries are hand-curated and stay in the hundreds
	for _, e := range s.entries {
		if e.SourceID == record.SourceID {
			s.mu.Unlock()
			s.logger.Debug("rejected duplicate", "sourceID", record.SourceID)
			return domain.LibraryEntry{}, domain.ErrDuplicate
		}
	}

	entry := domain.LibraryEntry{
		ID:         s.nextIDLocked(),
		BookRecord: record,
		IsLiked:    false,
		Progress:   0,
		Status:     domain.StatusUnread,
		Notes:      "",
		DateAdded:  s.now().UTC(),
	}
	s.entries = append(s.entries, entry)

	if err := s.persistLocked(); err != nil {
		s.entries = s.entries[:len(s.entries)-1]
		s.mu.Unlock()
		s.logger.Error("failed to persist new entry", "error", err, "sourceID", record.SourceID)
		return domain.LibraryEntry{}, err
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("added book", "id", entry.ID, "sourceID", entry.SourceID, "title", entry.Title)
	s.notify(domain.ChangeEvent{Kind: domain.ChangeAdded, Entry: entry, Entries: snapshot})
	return entry, nil
}

// ToggleLike flips IsLiked and returns the new value.
// Returns domain.ErrEntryNotFound if no entry has the ID.
func (s *Store) ToggleLike(id int64) (bool, error) {
	s.mu.Lock()

	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, domain.ErrEntryNotFound
	}

	s.entries[idx].IsLiked = !s.entries[idx].IsLiked
	if err := s.persistLocked(); err != nil {
		s.entries[idx].IsLiked = !s.entries[idx].IsLiked
		s.mu.Unlock()
		s.logger.Error("failed to persist like toggle", "error", err, "id", id)
		return false, err
	}
	entry := s.entries[idx]
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("toggled like", "id", id, "liked", entry.IsLiked)
	s.notify(domain.ChangeEvent{Kind: domain.ChangeLikeToggled, Entry: entry, Entries: snapshot})
	return entry.IsLiked, nil
}

// UpdateProgress clamps progress into [0,100] and derives Status from it:
// completed at 100, reading otherwise. An explicit 0 therefore reads as
// "reading", not "unread"; only never-touched entries are unread.
// Returns domain.ErrEntryNotFound if no entry has the ID.
func (s *Store) UpdateProgress(id int64, progress int) (domain.LibraryEntry, error) {
	progress = clampProgress(progress)

	s.mu.Lock()

	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return domain.LibraryEntry{}, domain.ErrEntryNotFound
	}

	prevProgress, prevStatus := s.entries[idx].Progress, s.entries[idx].Status
	s.entries[idx].Progress = progress
	if progress == 100 {
		s.entries[idx].Status = domain.StatusCompleted
	} else {
		s.entries[idx].Status = domain.StatusReading
	}

	if err := s.persistLocked(); err != nil {
		s.entries[idx].Progress, s.entries[idx].Status = prevProgress, prevStatus
		s.mu.Unlock()
		s.logger.Error("failed to persist progress", "error", err, "id", id)
		return domain.LibraryEntry{}, err
	}
	entry := s.entries[idx]
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("updated progress", "id", id, "progress", entry.Progress, "status", entry.Status)
	s.notify(domain.ChangeEvent{Kind: domain.ChangeProgressUpdated, Entry: entry, Entries: snapshot})
	return entry, nil
}

// Subscribe registers an observer for persisted changes.
// Observers run synchronously on the mutating goroutine after the store lock
// is released. The returned func unsubscribes.
func (s *Store) Subscribe(observer domain.ChangeObserver) func() {
	s.obsMu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = observer
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

// --- Private helpers ---

func (s *Store) notify(event domain.ChangeEvent) {
	s.obsMu.Lock()
	observers := make([]domain.ChangeObserver, 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	s.obsMu.Unlock()

	for _, o := range observers {
		o.OnChange(event)
	}
}

// persistLocked writes the whole list. Caller holds mu.
func (s *Store) persistLocked() error {
	data, err := encodeEntries(s.entries)
	if err != nil {
		return fmt.Errorf("failed to encode library: %w", err)
	}
	return s.blobs.Save(data)
}

// nextIDLocked derives an ID from the clock, bumped past the last issued ID
// so IDs stay strictly increasing across clock collisions and regressions.
func (s *Store) nextIDLocked() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) indexLocked(id int64) int {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() []domain.LibraryEntry {
	out := make([]domain.LibraryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func clampProgress(p int) int {
	return min(max(p, 0), 100)
}
