// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"

	"github.com/danielhkuo/pollwire/models"
)

var (
	// ErrNotFound means no live vote exists for the (session, poll) pair.
	ErrNotFound = errors.New("vote not found")

	// ErrConflictingVote means the insert lost a race on the
	// UNIQUE (session_id, poll_id) constraint. The recorder retries on it.
	ErrConflictingVote = errors.New("conflicting vote for session and poll")
)

// Ledger is the durable store of one vote record per (session, poll) pair.
// Implementations must enforce the uniqueness constraint themselves; the
// recorder's retry loop exists precisely because the check-then-insert
// sequence can race.
type Ledger interface {
	// FindBySessionAndPoll returns the live vote for the pair, or ErrNotFound.
	FindBySessionAndPoll(ctx context.Context, sessionID, pollID string) (*models.Vote, error)

	// Insert adds a new vote record. Returns ErrConflictingVote when a record
	// for the same (session, poll) already exists.
	Insert(ctx context.Context, v models.Vote) error

	// DeleteByID removes a vote record and reports whether a live record was
	// actually retired. Deleting an absent record is not an error; it returns
	// false, which callers must honor before giving back the record's tally
	// unit, because a concurrent revote may have already replaced the row.
	DeleteByID(ctx context.Context, id string) (bool, error)

	// CountByOption tallies live records per option for one poll. This is the
	// authoritative source for rebuilding the tally store.
	CountByOption(ctx context.Context, pollID string) (map[string]int64, error)
}
