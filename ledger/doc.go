// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger is the durable store of vote records.

One live record exists per (session, poll) pair; the store itself enforces
that with a unique index, and surfaces races on it as ErrConflictingVote so
the recorder can retry its check-then-insert sequence.

# Implementations

  - SQLLedger: database/sql against the vote table (sqlite or postgres)
  - Memory: mutex-guarded map, used by recorder tests, with injectable
    BeforeInsert/BeforeDelete hooks to provoke races deterministically

# Recovery

The ledger is the authority for tallies. CountByOption (and SQLLedger's
CountAll) recompute counts from live records; main uses CountAll at boot
to reseed the tally store.
*/
package ledger
