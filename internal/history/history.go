// Package history keeps a log of served predictions in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

type Entry struct {
	ID         string    `json:"id"`
	Species    string    `json:"species"`
	Label      string    `json:"label"`
	Confidence float32   `json:"confidence"`
	Resolved   bool      `json:"resolved"`
	CreatedAt  time.Time `json:"created_at"`
}

type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

func Open(path string, logger *zap.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// A single writer avoids SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}

	logger.Info("Prediction history initialized", zap.String("db_path", path))
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS predictions (
		id         TEXT PRIMARY KEY,
		species    TEXT NOT NULL,
		label      TEXT NOT NULL,
		confidence REAL NOT NULL,
		resolved   BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores e, filling in ID and CreatedAt when they are zero.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO predictions (id, species, label, confidence, resolved, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Species, e.Label, e.Confidence, e.Resolved, e.CreatedAt,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to record prediction: %w", err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, species, label, confidence, resolved, created_at
		 FROM predictions ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Species, &e.Label, &e.Confidence, &e.Resolved, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
