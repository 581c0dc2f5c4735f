// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // SQLite driver for database/sql
)

//go:embed migrations/*.sql
var migrations embed.FS

// OpenDB opens a SQLite database and applies connection pragmas.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One writer; WAL lets readers proceed alongside it.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return db, nil
}

// Migrate runs all pending migrations.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// SQLiteStore keeps documents as JSON rows in a single records table.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens path, migrates it and returns a store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// DB exposes the handle for health checks.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// List returns one page of a collection, newest first. Search runs over
// the decoded documents so both stores match identically.
func (s *SQLiteStore) List(ctx context.Context, resource string, q ListQuery) ([]Document, int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM records WHERE resource = ? ORDER BY created_at DESC`, resource)
	if err != nil {
		return nil, 0, fmt.Errorf("listing %s: %w", resource, err)
	}
	defer func() { _ = rows.Close() }()

	var docs []Document
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, 0, fmt.Errorf("scanning %s: %w", resource, err)
		}
		d, err := decodeDocument(body)
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("listing %s: %w", resource, err)
	}

	page, total := paginate(docs, q)
	return page, total, nil
}

// Get returns a single document.
func (s *SQLiteStore) Get(ctx context.Context, resource, id string) (Document, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM records WHERE resource = ? AND id = ?`, resource, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s %s: %w", resource, id, err)
	}
	return decodeDocument(body)
}

// Create stores doc under a fresh id.
func (s *SQLiteStore) Create(ctx context.Context, resource string, doc Document) (Document, error) {
	d := stamp(doc, s.now())
	body, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", resource, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (resource, id, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		resource, d.ID(), string(body), d["createdAt"], d["updatedAt"])
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", resource, err)
	}
	return d, nil
}

// Update merges patch into an existing document.
func (s *SQLiteStore) Update(ctx context.Context, resource, id string, patch Document) (Document, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var body string
	err = tx.QueryRowContext(ctx,
		`SELECT body FROM records WHERE resource = ? AND id = ?`, resource, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s %s: %w", resource, id, err)
	}
	d, err := decodeDocument(body)
	if err != nil {
		return nil, err
	}

	d = merge(d, patch, s.now())
	encoded, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", resource, err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE records SET body = ?, updated_at = ? WHERE resource = ? AND id = ?`,
		string(encoded), d["updatedAt"], resource, id); err != nil {
		return nil, fmt.Errorf("updating %s %s: %w", resource, id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing: %w", err)
	}
	return d, nil
}

// Delete removes a document.
func (s *SQLiteStore) Delete(ctx context.Context, resource, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE resource = ? AND id = ?`, resource, id)
	if err != nil {
		return fmt.Errorf("deleting %s %s: %w", resource, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting %s %s: %w", resource, id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func decodeDocument(body string) (Document, error) {
	var d Document
	if err := json.Unmarshal([]byte(body), &d); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return d, nil
}

var _ Store = (*SQLiteStore)(nil)
