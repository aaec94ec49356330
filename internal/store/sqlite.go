package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/corretor/internal/speller"
)

// SQLiteStore implements VocabularyStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ VocabularyStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS words (
		word TEXT PRIMARY KEY,
		frequency INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		words INTEGER NOT NULL,
		total INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// SaveVocabulary replaces the stored words with vocab and records a snapshot.
func (s *SQLiteStore) SaveVocabulary(ctx context.Context, vocab *speller.Vocabulary, source string) (*Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM words`); err != nil {
		return nil, fmt.Errorf("failed to clear words: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO words (word, frequency) VALUES (?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	total := 0
	var insertErr error
	vocab.Each(func(word string, frequency int) {
		if insertErr != nil {
			return
		}
		if _, err := stmt.ExecContext(ctx, word, frequency); err != nil {
			insertErr = fmt.Errorf("failed to insert %q: %w", word, err)
			return
		}
		total += frequency
	})
	if insertErr != nil {
		return nil, insertErr
	}

	snap := &Snapshot{
		ID:        uuid.New().String(),
		Source:    source,
		Words:     vocab.Len(),
		Total:     total,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, source, words, total, created_at) VALUES (?, ?, ?, ?, ?)`,
		snap.ID, snap.Source, snap.Words, snap.Total, snap.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to record snapshot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return snap, nil
}

// LoadVocabulary reads the stored words into a new Vocabulary, applying
// minFrequency. It returns ErrNoSnapshot if nothing was saved yet.
func (s *SQLiteStore) LoadVocabulary(ctx context.Context, minFrequency int) (*speller.Vocabulary, error) {
	if _, err := s.LatestSnapshot(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT word, frequency FROM words`)
	if err != nil {
		return nil, fmt.Errorf("failed to query words: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var word string
		var frequency int
		if err := rows.Scan(&word, &frequency); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		counts[word] = frequency
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return speller.NewVocabulary(counts, minFrequency), nil
}

// LatestSnapshot returns the most recent snapshot record.
func (s *SQLiteStore) LatestSnapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, words, total, created_at FROM snapshots
		 ORDER BY created_at DESC LIMIT 1`,
	).Scan(&snap.ID, &snap.Source, &snap.Words, &snap.Total, &snap.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return &snap, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
