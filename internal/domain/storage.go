package domain

// BlobStore holds the whole library as one opaque blob under a single fixed key.
// Save overwrites the previous blob wholesale; there are no partial updates.
type BlobStore interface {
	// Load returns the stored blob. ok is false when nothing has been saved yet.
	Load() (data []byte, ok bool, err error)

	// Save durably replaces the stored blob before returning.
	Save(data []byte) error

	Close() error
}
