package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"nutribot/internal/core"
)

// sqliteStore implements core.ProfileStore over a SQLite file.
// The profile document is stored as a JSON blob keyed by user id, so schema
// changes to UserProfile don't require migrations.
type sqliteStore struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) a SQLite-backed profile store.
// WAL mode is enabled for concurrent reads while writing.
func NewSQLite(cfg SQLiteConfig) (core.ProfileStore, error) {
	if cfg.Path == "" {
		cfg.Path = "data/nutribot.db"
	}

	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	dsn := fmt.Sprintf("%s?_journal=WAL&_busy_timeout=5000&_synchronous=NORMAL", cfg.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// SQLite only allows one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS profiles (
			user_id TEXT PRIMARY KEY,
			document TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create profiles table: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Get(ctx context.Context, userID string) (*core.UserProfile, error) {
	var document string
	err := s.db.QueryRowContext(ctx,
		"SELECT document FROM profiles WHERE user_id = ?", userID,
	).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	var profile core.UserProfile
	if err := json.Unmarshal([]byte(document), &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile document: %w", err)
	}
	return &profile, nil
}

func (s *sqliteStore) Put(ctx context.Context, profile *core.UserProfile) error {
	document, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, document) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET document = excluded.document
	`, profile.UserID, string(document))
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (s *sqliteStore) Delete(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM profiles WHERE user_id = ?", userID,
	); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
