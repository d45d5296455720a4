package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/simaogato/moneymaster-backend/internal/domain"
)

// snapshot is the on-disk layout: every collection plus the id counters
type snapshot struct {
	Collections map[domain.Collection]json.RawMessage `json:"collections"`
	Counters    map[domain.Counter]int64              `json:"counters"`
}

// Store is a domain.RecordStore persisted as a single JSON file.
// Every write replaces the file through a temp file and rename.
type Store struct {
	path string

	mu      sync.Mutex
	state   snapshot
	openErr error
}

// Open reads the snapshot at path. A missing file starts an empty store.
// An unreadable or corrupt file does not fail Open: Load then reports
// the error for every collection so readers degrade to empty data and
// writers refuse to overwrite it.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	s := &Store{path: path, state: emptySnapshot()}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		s.openErr = fmt.Errorf("read snapshot %s: %w", path, err)
		return s, nil
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.openErr = fmt.Errorf("decode snapshot %s: %w", path, err)
		return s, nil
	}
	if snap.Collections != nil {
		s.state.Collections = snap.Collections
	}
	if snap.Counters != nil {
		s.state.Counters = snap.Counters
	}
	return s, nil
}

// Path returns the snapshot file location
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored document for the collection
func (s *Store) Load(ctx context.Context, collection domain.Collection) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.openErr != nil {
		return nil, s.openErr
	}
	doc, ok := s.state.Collections[collection]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), doc...), nil
}

// Save writes the batch together with the rest of the snapshot
func (s *Store) Save(ctx context.Context, batch domain.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.openErr != nil {
		return s.openErr
	}

	next := s.copyState()
	for collection, doc := range batch {
		if !json.Valid(doc) {
			return fmt.Errorf("collection %s: document is not valid JSON", collection)
		}
		next.Collections[collection] = append(json.RawMessage(nil), doc...)
	}
	if err := s.write(next); err != nil {
		return err
	}
	s.state = next
	return nil
}

// NextID increments the counter and flushes the snapshot before returning
func (s *Store) NextID(ctx context.Context, counter domain.Counter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.openErr != nil {
		return 0, s.openErr
	}

	next := s.copyState()
	next.Counters[counter]++
	if err := s.write(next); err != nil {
		return 0, err
	}
	s.state = next
	return next.Counters[counter], nil
}

// InitCounter sets the counter only if the snapshot has no value for it
func (s *Store) InitCounter(ctx context.Context, counter domain.Counter, value int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.openErr != nil {
		return s.openErr
	}
	if _, ok := s.state.Counters[counter]; ok {
		return nil
	}

	next := s.copyState()
	next.Counters[counter] = value
	if err := s.write(next); err != nil {
		return err
	}
	s.state = next
	return nil
}

func (s *Store) copyState() snapshot {
	next := emptySnapshot()
	for k, v := range s.state.Collections {
		next.Collections[k] = v
	}
	for k, v := range s.state.Counters {
		next.Counters[k] = v
	}
	return next
}

// write replaces the snapshot file atomically
func (s *Store) write(snap snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func emptySnapshot() snapshot {
	return snapshot{
		Collections: make(map[domain.Collection]json.RawMessage),
		Counters:    make(map[domain.Counter]int64),
	}
}
