package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nutribot/internal/core"
)

// postgresStore implements core.ProfileStore over PostgreSQL, storing the
// profile document as JSONB.
type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgreSQL creates a PostgreSQL-backed profile store.
// It creates a connection pool and the profiles table if missing.
func NewPostgreSQL(ctx context.Context, cfg PostgreSQLConfig) (core.ProfileStore, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("PostgreSQL URL is required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL URL: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	} else {
		poolCfg.MaxConns = 10 // default
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS profiles (
			user_id TEXT PRIMARY KEY,
			document JSONB NOT NULL
		)
	`); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create profiles table: %w", err)
	}

	return &postgresStore{pool: pool}, nil
}

func (s *postgresStore) Get(ctx context.Context, userID string) (*core.UserProfile, error) {
	var document []byte
	err := s.pool.QueryRow(ctx,
		"SELECT document FROM profiles WHERE user_id = $1", userID,
	).Scan(&document)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	var profile core.UserProfile
	if err := json.Unmarshal(document, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile document: %w", err)
	}
	return &profile, nil
}

func (s *postgresStore) Put(ctx context.Context, profile *core.UserProfile) error {
	document, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO profiles (user_id, document) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET document = EXCLUDED.document
	`, profile.UserID, document)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (s *postgresStore) Delete(ctx context.Context, userID string) error {
	if _, err := s.pool.Exec(ctx,
		"DELETE FROM profiles WHERE user_id = $1", userID,
	); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

func (s *postgresStore) Close() error {
	s.pool.Close()
	return nil
}
