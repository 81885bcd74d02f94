// Package redis provides the Redis-backed collection store, selected by
// configuration when collections should live in a shared backend rather
// than on local disk. The key layout mirrors the file store.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pantrysage/v1/internal/infrastructure/config"
	"github.com/pantrysage/v1/internal/ports/outbound"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix        = "pantrysage"
	sessionMarkerKey = "pantrysage:session"
)

// Store implements outbound.CollectionStore on Redis.
type Store struct {
	client *redis.Client
	logger *zap.Logger
}

// New creates a Redis-backed store and verifies connectivity.
func New(cfg *config.Config, logger *zap.Logger) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Database,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Store{
		client: client,
		logger: logger.Named("redis-store"),
	}, nil
}

func key(identityKey string, collection outbound.Collection) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, identityKey, collection)
}

// Load reads and decodes a collection into out, reporting false on a
// missing key, malformed payload, or backend failure.
func (s *Store) Load(ctx context.Context, identityKey string, collection outbound.Collection, out interface{}) bool {
	data, err := s.client.Get(ctx, key(identityKey, collection)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("Failed to read collection",
				zap.String("identity", identityKey),
				zap.String("collection", string(collection)),
				zap.Error(err),
			)
		}
		return false
	}

	// A stored "null" decodes into anything without error; treat it as
	// absent so callers keep their default.
	if strings.TrimSpace(string(data)) == "null" {
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("Failed to decode collection, falling back to default",
			zap.String("identity", identityKey),
			zap.String("collection", string(collection)),
			zap.Error(err),
		)
		return false
	}

	return true
}

// Save encodes and writes a collection. Collections have no TTL; they
// live until overwritten.
func (s *Store) Save(ctx context.Context, identityKey string, collection outbound.Collection, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value: %w", err)
	}

	if err := s.client.Set(ctx, key(identityKey, collection), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write collection %s: %w", collection, err)
	}
	return nil
}

// LoadSessionMarker reads the unprefixed current-session key.
func (s *Store) LoadSessionMarker(ctx context.Context) (string, bool) {
	email, err := s.client.Get(ctx, sessionMarkerKey).Result()
	if err != nil || email == "" {
		return "", false
	}
	return email, true
}

// SaveSessionMarker persists the signed-in email as the session marker.
func (s *Store) SaveSessionMarker(ctx context.Context, email string) error {
	return s.client.Set(ctx, sessionMarkerKey, email, 0).Err()
}

// ClearSessionMarker removes the session marker.
func (s *Store) ClearSessionMarker(ctx context.Context) error {
	return s.client.Del(ctx, sessionMarkerKey).Err()
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
