package repositories

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dgraph-io/badger/v4"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicate   = errors.New("record already exists")
	ErrUnsupported = errors.New("operation not supported by this storage")
)

// Storage types accepted by Open.
const (
	StorageBadger = "badger"
	StorageSQLite = "sqlite"
)

// Store bundles the repositories backed by one database.
type Store struct {
	News     NewsRepository
	Comments CommentRepository
	Users    UserRepository
	Sessions SessionRepository

	db     *badger.DB
	closer func() error
}

// Open opens the store of the given type at dsn.
func Open(storageType, dsn string) (*Store, error) {
	switch storageType {
	case StorageBadger, "":
		return OpenBadger(dsn)
	case StorageSQLite:
		return OpenSQLite(dsn)
	default:
		return nil, fmt.Errorf("unknown storage type %q", storageType)
	}
}

// OpenBadger opens (or creates) a badger database at path.
// An empty path opens an in-memory database.
func OpenBadger(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	if path == "" {
		opts = opts.WithInMemory(true)
	} else if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return NewBadgerStore(db), nil
}

// NewBadgerStore wraps an already open badger database.
func NewBadgerStore(db *badger.DB) *Store {
	return &Store{
		News:     NewBadgerNewsRepository(db),
		Comments: NewBadgerCommentRepository(db),
		Users:    NewBadgerUserRepository(db),
		Sessions: NewBadgerSessionRepository(db),
		db:       db,
		closer:   db.Close,
	}
}

// Backup writes a full backup of the store to w.
func (s *Store) Backup(w io.Writer) error {
	if s.db == nil {
		return ErrUnsupported
	}
	if _, err := s.db.Backup(w, 0); err != nil {
		return fmt.Errorf("failed to backup database: %w", err)
	}
	return nil
}

// Restore loads a backup produced by Backup into the store.
func (s *Store) Restore(r io.Reader) error {
	if s.db == nil {
		return ErrUnsupported
	}
	if err := s.db.Load(r, 256); err != nil {
		return fmt.Errorf("failed to restore database: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
