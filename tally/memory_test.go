// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStore_Increment(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	n, err := s.Increment(ctx, "p1", "optA", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.Increment(ctx, "p1", "optA", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = s.Increment(ctx, "p1", "optA", -1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemStore_IndependentKeys(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	_, err := s.Increment(ctx, "p1", "optA", 1)
	require.NoError(t, err)
	_, err = s.Increment(ctx, "p2", "optA", 1)
	require.NoError(t, err)

	counts, err := s.Snapshot(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"optA": 1}, counts)
}

func TestMemStore_UnderflowClampsToZero(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	n, err := s.Increment(ctx, "p1", "optA", -1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n, "decrement of a fresh counter must clamp to zero")

	counts, err := s.Snapshot(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts["optA"])
}

func TestMemStore_ConcurrentIncrements(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	const workers = 50
	const perWorker = 20

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_, err := s.Increment(ctx, "p1", "optA", 1)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	counts, err := s.Snapshot(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(workers*perWorker), counts["optA"], "no increment may be lost")
}

func TestMemStore_Rebuild(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	_, err := s.Increment(ctx, "p1", "optA", 1)
	require.NoError(t, err)
	_, err = s.Increment(ctx, "p1", "stale", 1)
	require.NoError(t, err)

	require.NoError(t, s.Rebuild(ctx, "p1", map[string]int64{"optA": 7, "optB": 3}))

	counts, err := s.Snapshot(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), counts["optA"])
	assert.Equal(t, int64(3), counts["optB"])
	assert.Equal(t, int64(0), counts["stale"], "counters absent from the rebuild reset to zero")
}
