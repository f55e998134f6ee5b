// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
)

// MemStore keeps counters in process memory. Each (poll, option) key owns an
// independent atomic counter, so contention is bounded to hot options and a
// busy option never serializes votes on its siblings.
type MemStore struct {
	counters sync.Map // "pollID/optionID" -> *atomic.Int64
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

// Option IDs are uuids and cannot contain '/', so the separator is unambiguous.
func memKey(pollID, optionID string) string {
	return pollID + "/" + optionID
}

func (s *MemStore) counter(pollID, optionID string) *atomic.Int64 {
	key := memKey(pollID, optionID)
	if c, ok := s.counters.Load(key); ok {
		return c.(*atomic.Int64)
	}
	c, _ := s.counters.LoadOrStore(key, new(atomic.Int64))
	return c.(*atomic.Int64)
}

func (s *MemStore) Increment(ctx context.Context, pollID, optionID string, delta int64) (int64, error) {
	c := s.counter(pollID, optionID)
	n := c.Add(delta)
	for n < 0 {
		slog.Warn("tally underflow clamped",
			"poll_id", pollID,
			"option_id", optionID,
			"count", n,
		)
		if c.CompareAndSwap(n, 0) {
			return 0, nil
		}
		n = c.Load()
	}
	return n, nil
}

func (s *MemStore) Snapshot(ctx context.Context, pollID string) (map[string]int64, error) {
	prefix := pollID + "/"
	counts := make(map[string]int64)
	s.counters.Range(func(key, value any) bool {
		k := key.(string)
		if strings.HasPrefix(k, prefix) {
			counts[strings.TrimPrefix(k, prefix)] = value.(*atomic.Int64).Load()
		}
		return true
	})
	return counts, nil
}

func (s *MemStore) Rebuild(ctx context.Context, pollID string, counts map[string]int64) error {
	// Reset existing counters for the poll, then seed the authoritative values.
	prefix := pollID + "/"
	s.counters.Range(func(key, value any) bool {
		if strings.HasPrefix(key.(string), prefix) {
			value.(*atomic.Int64).Store(0)
		}
		return true
	})
	for optionID, n := range counts {
		s.counter(pollID, optionID).Store(n)
	}
	return nil
}
