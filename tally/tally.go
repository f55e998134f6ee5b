// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import "context"

// Store maintains the live per-(poll, option) counters. Counters are created
// lazily at zero and mutated only through signed ±1 increments, so the store
// never needs to know a poll's option set.
type Store interface {
	// Increment atomically adjusts one counter and returns the new count.
	// The result is never negative: an underflow is clamped to zero and
	// reported through logging, not through the return value.
	Increment(ctx context.Context, pollID, optionID string, delta int64) (int64, error)

	// Snapshot returns a point-in-time read of one poll's counters. It is
	// not linearizable with concurrent increments; staleness of an
	// in-flight update is acceptable.
	Snapshot(ctx context.Context, pollID string) (map[string]int64, error)

	// Rebuild replaces one poll's counters with authoritative values
	// recomputed from the ledger.
	Rebuild(ctx context.Context, pollID string, counts map[string]int64) error
}
