package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

const dbFileName = "shelf.db"

// Bucket and key names. The library is one blob under one fixed key.
var (
	bucketLibrary = []byte("library")
	keyLibrary    = []byte("library")
)

// ErrLocked indicates another process holds the database open
var ErrLocked = errors.New("library database is locked")

// BlobStore implements domain.BlobStore using BoltDB.
type BlobStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects mem

	// Memory-only mode keeps the blob here instead of on disk
	mem []byte
}

// NewBlobStore opens (or creates) the database under dataDir.
// An empty dataDir selects memory-only mode (no persistence).
func NewBlobStore(dataDir string) (*BlobStore, error) {
	if dataDir == "" {
		return &BlobStore{}, nil
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFileName)
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if errors.Is(err, bolt.ErrTimeout) {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dbPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketLibrary)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BlobStore{db: db}, nil
}

// Path returns the database file path, or "" in memory-only mode
func (s *BlobStore) Path() string {
	if s.db == nil {
		return ""
	}
	return s.db.Path()
}

func (s *BlobStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load returns a copy of the stored blob
func (s *BlobStore) Load() ([]byte, bool, error) {
	if s.db == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		if s.mem == nil {
			return nil, false, nil
		}
		return append([]byte(nil), s.mem...), true, nil
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLibrary)
		if b == nil {
			return nil
		}
		// Values are only valid for the life of the transaction
		if v := b.Get(keyLibrary); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to read library blob: %w", err)
	}
	return data, data != nil, nil
}

// Save replaces the stored blob. bbolt fsyncs on commit, so the write is
// durable once Save returns nil.
func (s *BlobStore) Save(data []byte) error {
	if s.db == nil {
		s.mu.Lock()
		s.mem = append([]byte(nil), data...)
		s.mu.Unlock()
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketLibrary)
		if err != nil {
			return err
		}
		return b.Put(keyLibrary, data)
	})
	if err != nil {
		return fmt.Errorf("failed to write library blob: %w", err)
	}
	return nil
}
