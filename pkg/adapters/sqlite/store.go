// Package sqlite persists machine definitions in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/arvholm/espalier/pkg/definition"
)

// Store implements ports.MachineStore on a SQLite database. Definitions
// are kept as JSON documents keyed by name, with the save metadata in
// dedicated columns.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dsn and prepares the schema.
// Use ":memory:" for an in-process database.
func New(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Each SQLite connection sees its own ":memory:" database, so the
	// pool must stay at a single connection for state to be shared.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return store, nil
}

// migrate creates the schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS machines (
		name       TEXT PRIMARY KEY,
		document   TEXT NOT NULL,
		revision   TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save upserts the definition under its name.
func (s *Store) Save(ctx context.Context, def *definition.Definition) (*definition.Stored, error) {
	if def.Name == "" {
		return nil, definition.ErrUnnamed
	}

	stored := definition.NewStored(def)
	doc, err := json.Marshal(&stored.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal definition: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO machines (name, document, revision, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		 document = excluded.document, revision = excluded.revision, updated_at = excluded.updated_at`,
		def.Name, string(doc), stored.Revision, stored.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("save definition: %w", err)
	}

	return stored, nil
}

// Load retrieves the stored record by name.
func (s *Store) Load(ctx context.Context, name string) (*definition.Stored, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT document, revision, updated_at FROM machines WHERE name = ?`, name,
	)

	var doc, revision, updatedAt string
	if err := row.Scan(&doc, &revision, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, definition.ErrNotFound
		}
		return nil, fmt.Errorf("load definition: %w", err)
	}

	var stored definition.Stored
	if err := json.Unmarshal([]byte(doc), &stored.Definition); err != nil {
		return nil, fmt.Errorf("unmarshal definition: %w", err)
	}
	stored.Revision = revision

	ts, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	stored.UpdatedAt = ts

	return &stored, nil
}

// Delete removes the definition.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM machines WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete definition: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete definition: %w", err)
	}
	if affected == 0 {
		return definition.ErrNotFound
	}
	return nil
}

// List returns the registered names in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM machines ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list definitions: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
