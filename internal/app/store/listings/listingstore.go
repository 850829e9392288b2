// internal/app/store/listings/listingstore.go

// Package listings persists the whole listing collection as a single JSON
// file. There is no partial-record update: every mutation loads the full
// collection, transforms it in memory, and replaces the file wholesale.
// The replace is a temp-file write plus rename, so a failed write leaves
// the previous collection intact.
package listings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dissyboard/dissyboard/internal/domain/models"
)

// ErrCorrupt is returned when the backing file exists but does not contain a
// valid listing collection. Callers must treat this as a server-side failure,
// never as an empty collection.
var ErrCorrupt = errors.New("listing file is corrupt")

// Store provides whole-collection access to the listing file.
//
// By default every Mutate call holds the store mutex across the whole
// load-transform-replace sequence, so concurrent mutations cannot silently
// discard each other's writes.
type Store struct {
	path string

	serialize bool
	mu        sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithoutWriteSerialization disables the mutex around load-mutate-replace,
// restoring the historical behavior where two concurrent mutations race and
// the last ReplaceAll wins. Only useful for exercising that behavior; the
// default construction serializes writes.
func WithoutWriteSerialization() Option {
	return func(s *Store) { s.serialize = false }
}

// New creates a store backed by the JSON file at path. The file is not
// touched until the first operation.
func New(path string, opts ...Option) *Store {
	s := &Store{path: path, serialize: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// LoadAll reads the entire collection. If the backing file does not exist
// yet it is initialized to an empty collection first; this bootstrap is
// idempotent and never truncates an existing file. An unreadable or
// malformed file is an error, not an empty result.
func (s *Store) LoadAll(ctx context.Context) ([]models.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		if err := s.bootstrap(); err != nil {
			return nil, err
		}
		return []models.Listing{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read listing file: %w", err)
	}

	var all []models.Listing
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if all == nil {
		all = []models.Listing{}
	}
	return all, nil
}

// ReplaceAll durably persists the given sequence as the new whole collection.
func (s *Store) ReplaceAll(ctx context.Context, all []models.Listing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if all == nil {
		all = []models.Listing{}
	}

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("encode listing file: %w", err)
	}
	return s.writeAtomic(data)
}

// Mutate runs fn on the current collection and persists its result. When
// write serialization is enabled (the default) the whole sequence holds the
// store mutex, so concurrent mutations are applied one after another instead
// of overwriting each other. If fn or the write fails, the file keeps its
// previous contents.
func (s *Store) Mutate(ctx context.Context, fn func([]models.Listing) ([]models.Listing, error)) error {
	if s.serialize {
		s.mu.Lock()
		defer s.mu.Unlock()
	}

	all, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}
	next, err := fn(all)
	if err != nil {
		return err
	}
	return s.ReplaceAll(ctx, next)
}

// bootstrap creates the backing file holding an empty collection. It uses
// O_EXCL so a concurrent or repeated bootstrap never overwrites data that
// another call already wrote.
func (s *Store) bootstrap() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create listing dir: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("initialize listing file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write([]byte("[]")); err != nil {
		return fmt.Errorf("initialize listing file: %w", err)
	}
	return f.Sync()
}

// writeAtomic writes data to a temp file in the same directory and renames
// it over the backing file, so readers never observe a partial write.
func (s *Store) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create listing dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".servers-*.json")
	if err != nil {
		return fmt.Errorf("write listing file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write listing file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync listing file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close listing file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace listing file: %w", err)
	}
	return nil
}
