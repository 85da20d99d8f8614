package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"nutribot/internal/core"
)

// DefaultRedisKeyPrefix prefixes every profile key in Redis.
const DefaultRedisKeyPrefix = "nutribot:profile:"

// redisStore implements core.ProfileStore over Redis, storing each profile
// as a JSON document. Suitable when the bot's session store already runs on
// Redis and profiles should live next to it.
type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a Redis-backed profile store.
func NewRedis(ctx context.Context, cfg RedisConfig) (core.ProfileStore, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("redis URL is required")
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}

	slog.Info("redis profile store connected", "prefix", prefix)

	return &redisStore{client: client, prefix: prefix}, nil
}

func (s *redisStore) Get(ctx context.Context, userID string) (*core.UserProfile, error) {
	data, err := s.client.Get(ctx, s.prefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile from redis: %w", err)
	}

	var profile core.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile from redis: %w", err)
	}
	return &profile, nil
}

func (s *redisStore) Put(ctx context.Context, profile *core.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	// Profiles persist until deleted; no TTL.
	if err := s.client.Set(ctx, s.prefix+profile.UserID, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set profile in redis: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.prefix+userID).Err(); err != nil {
		return fmt.Errorf("failed to delete profile from redis: %w", err)
	}
	return nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
