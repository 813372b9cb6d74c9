package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the Redis connection for a RedisTranscriptStore.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	PoolSize  int    `yaml:"pool_size"`
	KeyPrefix string `yaml:"key_prefix"`
}

// RedisTranscriptStore is a Redis-based implementation of TranscriptStore.
// Suitable for distributed production deployments. Each (negotiation, role)
// pair maps to a Redis list of JSON-encoded exchanges.
type RedisTranscriptStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisTranscriptStore creates a new Redis-based transcript store and
// verifies the connection.
func NewRedisTranscriptStore(cfg RedisConfig) (*RedisTranscriptStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	keyPrefix := cfg.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "macd:"
	}

	return &RedisTranscriptStore{
		client:    client,
		keyPrefix: keyPrefix + "transcript:",
	}, nil
}

// Close closes the store.
func (s *RedisTranscriptStore) Close() error {
	return s.client.Close()
}

// Ping checks if the store is healthy.
func (s *RedisTranscriptStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// historyKey returns the Redis key for a role's transcript list.
func (s *RedisTranscriptStore) historyKey(negotiationID, role string) string {
	return s.keyPrefix + negotiationID + ":" + role
}

// Append persists a single exchange.
func (s *RedisTranscriptStore) Append(ctx context.Context, ex *Exchange) error {
	if ex == nil {
		return ErrInvalidInput
	}

	cp := *ex
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}

	data, err := json.Marshal(&cp)
	if err != nil {
		return fmt.Errorf("failed to marshal exchange: %w", err)
	}

	return s.client.RPush(ctx, s.historyKey(cp.NegotiationID, cp.Role), data).Err()
}

// History returns a role's committed exchanges, oldest first.
func (s *RedisTranscriptStore) History(ctx context.Context, negotiationID, role string, limit int) ([]*Exchange, error) {
	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}

	raw, err := s.client.LRange(ctx, s.historyKey(negotiationID, role), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	out := make([]*Exchange, 0, len(raw))
	for _, item := range raw {
		var ex Exchange
		if err := json.Unmarshal([]byte(item), &ex); err != nil {
			return nil, fmt.Errorf("failed to unmarshal exchange: %w", err)
		}
		out = append(out, &ex)
	}
	return out, nil
}
