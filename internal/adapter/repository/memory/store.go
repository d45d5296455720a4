package memory

import (
	"context"
	"sync"

	"github.com/simaogato/moneymaster-backend/internal/domain"
)

// Store is an in-memory domain.RecordStore. Nothing survives the process.
type Store struct {
	mu       sync.Mutex
	docs     map[domain.Collection][]byte
	counters map[domain.Counter]int64
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		docs:     make(map[domain.Collection][]byte),
		counters: make(map[domain.Counter]int64),
	}
}

// Load returns a copy of the stored document, or nil when absent
func (s *Store) Load(ctx context.Context, collection domain.Collection) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[collection]
	if !ok {
		return nil, nil
	}
	return clone(doc), nil
}

// Save replaces every collection in the batch under one lock
func (s *Store) Save(ctx context.Context, batch domain.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for collection, doc := range batch {
		s.docs[collection] = clone(doc)
	}
	return nil
}

// NextID increments and returns the counter
func (s *Store) NextID(ctx context.Context, counter domain.Counter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters[counter]++
	return s.counters[counter], nil
}

// InitCounter sets the counter if it has never been set
func (s *Store) InitCounter(ctx context.Context, counter domain.Counter, value int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.counters[counter]; !ok {
		s.counters[counter] = value
	}
	return nil
}

// Put stores a raw document, bypassing encoding. Tests use it to plant corrupt data.
func (s *Store) Put(collection domain.Collection, doc []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[collection] = clone(doc)
}

// Counter returns the current counter value and whether it was ever set
func (s *Store) Counter(counter domain.Counter) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.counters[counter]
	return v, ok
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
