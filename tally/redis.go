// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const tallyPrefix = "tally:"

// RedisStore keeps counters in a Redis hash per poll, one field per option.
// HINCRBY is atomic per field, which gives the per-key increment guarantee
// without any locking on our side, and counters survive process restarts.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) key(pollID string) string {
	return tallyPrefix + pollID
}

func (s *RedisStore) Increment(ctx context.Context, pollID, optionID string, delta int64) (int64, error) {
	n, err := s.client.HIncrBy(ctx, s.key(pollID), optionID, delta).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment tally: %w", err)
	}
	if n < 0 {
		slog.Warn("tally underflow clamped",
			"poll_id", pollID,
			"option_id", optionID,
			"count", n,
		)
		if err := s.client.HSet(ctx, s.key(pollID), optionID, 0).Err(); err != nil {
			return 0, fmt.Errorf("failed to clamp tally: %w", err)
		}
		return 0, nil
	}
	return n, nil
}

func (s *RedisStore) Snapshot(ctx context.Context, pollID string) (map[string]int64, error) {
	fields, err := s.client.HGetAll(ctx, s.key(pollID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read tally snapshot: %w", err)
	}

	counts := make(map[string]int64, len(fields))
	for optionID, raw := range fields {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse tally for option %s: %w", optionID, err)
		}
		counts[optionID] = n
	}
	return counts, nil
}

func (s *RedisStore) Rebuild(ctx context.Context, pollID string, counts map[string]int64) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(pollID))
	for optionID, n := range counts {
		pipe.HSet(ctx, s.key(pollID), optionID, n)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to rebuild tally: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
