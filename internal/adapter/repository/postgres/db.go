package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB wraps the goal store's database connection.
type DB struct {
	*sql.DB
}

// NewDB opens and verifies a connection to the goal database.
// connectionString follows the lib/pq keyword form, e.g.
// "host=localhost port=5432 user=postgres password=postgres dbname=netfolio sslmode=disable".
//
// The goal store sees one row per identity, touched by the goal handlers
// and the background synchronizer, so the pool is kept small.
func NewDB(ctx context.Context, connectionString string) (*DB, error) {
	if connectionString == "" {
		return nil, errors.New("goal database connection string is empty")
	}

	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.DB.Close()
}
