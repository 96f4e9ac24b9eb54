package repositories

import (
	"fmt"
	"io"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

// Store owns the badger database a service keeps its records in
type Store struct {
	db       *badger.DB
	mutex    sync.Mutex
	dbPath   string
	inMemory bool
}

// Open opens the database at path. An empty path opens an in-memory database,
// which is what tests use. logger may be nil to silence badger.
func Open(path string, logger badger.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(logger).
		WithNumVersionsToKeep(1)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", path, err)
	}
	return &Store{
		db:       db,
		dbPath:   path,
		inMemory: path == "",
	}, nil
}

// DB exposes the handle repositories are built on
func (s *Store) DB() *badger.DB {
	return s.db
}

func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.Close()
}

// Clear drops every key, sequences included
func (s *Store) Clear() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.DropAll()
}

// Backup writes a full backup and returns the version it is consistent at
func (s *Store) Backup(w io.Writer) (uint64, error) {
	return s.db.Backup(w, 0)
}

// Restore loads a backup produced by Backup
func (s *Store) Restore(r io.Reader) error {
	return s.db.Load(r, 16)
}
