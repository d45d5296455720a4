package sqlkv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/simaogato/moneymaster-backend/internal/domain"
)

const (
	loadQuery = `SELECT data FROM collections WHERE name = ?`

	saveQuery = `
		INSERT INTO collections (name, data, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`

	nextIDQuery = `
		INSERT INTO counters (name, value)
		VALUES (?, 1)
		ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		RETURNING value
	`

	initCounterQuery = `
		INSERT INTO counters (name, value)
		VALUES (?, ?)
		ON CONFLICT (name) DO NOTHING
	`
)

// Store implements domain.RecordStore on a SQL database with two tables:
// collections(name, data) and counters(name, value)
type Store struct {
	db      *sql.DB
	dialect Dialect

	load        string
	save        string
	nextID      string
	initCounter string
}

// New creates a store on an open, migrated connection
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{
		db:          db,
		dialect:     dialect,
		load:        dialect.Rebind(loadQuery),
		save:        dialect.Rebind(saveQuery),
		nextID:      dialect.Rebind(nextIDQuery),
		initCounter: dialect.Rebind(initCounterQuery),
	}
}

// DB returns the underlying connection pool
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the stored document, or nil when the collection was never saved
func (s *Store) Load(ctx context.Context, collection domain.Collection) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(ctx, s.load, string(collection)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load collection %s: %w", collection, err)
	}
	return []byte(data), nil
}

// Save writes every collection of the batch in one database transaction
func (s *Store) Save(ctx context.Context, batch domain.Batch) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	// Fixed write order keeps concurrent batches from deadlocking
	names := make([]string, 0, len(batch))
	for collection := range batch {
		names = append(names, string(collection))
	}
	slices.Sort(names)

	for _, name := range names {
		doc := batch[domain.Collection(name)]
		if _, err := dbTx.ExecContext(ctx, s.save, name, string(doc)); err != nil {
			return fmt.Errorf("failed to save collection %s: %w", name, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// NextID increments the counter in a single statement and returns the new value
func (s *Store) NextID(ctx context.Context, counter domain.Counter) (int64, error) {
	var value int64
	if err := s.db.QueryRowContext(ctx, s.nextID, string(counter)).Scan(&value); err != nil {
		return 0, fmt.Errorf("failed to advance counter %s: %w", counter, err)
	}
	return value, nil
}

// InitCounter inserts the counter unless it already exists
func (s *Store) InitCounter(ctx context.Context, counter domain.Counter, value int64) error {
	if _, err := s.db.ExecContext(ctx, s.initCounter, string(counter), value); err != nil {
		return fmt.Errorf("failed to init counter %s: %w", counter, err)
	}
	return nil
}
