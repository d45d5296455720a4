package postgres

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/simaogato/moneymaster-backend/internal/adapter/repository/sqlkv"
)

// NewDB opens a PostgreSQL connection and verifies it
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=moneymaster sslmode=disable"
func NewDB(connectionString string) (*sql.DB, error) {
	db, err := sql.Open(sqlkv.Postgres.DriverName, connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Open connects, applies migrations and returns a record store on PostgreSQL
func Open(connectionString string) (*sqlkv.Store, error) {
	db, err := NewDB(connectionString)
	if err != nil {
		return nil, err
	}

	if err := sqlkv.RunMigrations(sqlkv.Postgres, connectionString); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return sqlkv.New(db, sqlkv.Postgres), nil
}
