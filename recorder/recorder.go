// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/pollwire/broadcast"
	"github.com/danielhkuo/pollwire/ledger"
	"github.com/danielhkuo/pollwire/models"
	"github.com/danielhkuo/pollwire/session"
	"github.com/danielhkuo/pollwire/tally"
)

var (
	// ErrAlreadyVoted means the session already holds a vote for this exact
	// option on this poll. The request is rejected with no state change.
	ErrAlreadyVoted = errors.New("session already voted for this option")

	// ErrConflict means the conditional insert kept losing races after all
	// retries. The whole request may be retried by the caller.
	ErrConflict = errors.New("vote conflicted with a concurrent request")
)

// maxAttempts bounds the optimistic retry loop on the ledger's unique
// constraint. Conflicts only arise from the same session racing itself, so
// more than a couple of retries means something is systematically wrong.
const maxAttempts = 5

const retryBackoff = 5 * time.Millisecond

// Publisher is the recorder's handle into the broadcast fan-out.
type Publisher interface {
	Publish(pollID string, ev broadcast.Event)
}

// Result reports the outcome of an accepted vote.
type Result struct {
	SessionID string
	// Minted is true when the request carried no session and one was created.
	Minted bool
}

// Recorder is the idempotent vote-recording state machine. It reconciles a
// vote request against the ledger and the tally store, producing at most one
// net counter delta per request, and publishes that delta to live observers.
type Recorder struct {
	ledger ledger.Ledger
	tally  tally.Store
	pub    Publisher
}

func New(l ledger.Ledger, t tally.Store, p Publisher) *Recorder {
	return &Recorder{ledger: l, tally: t, pub: p}
}

// RecordVote applies one vote request.
//
// The order of operations is load-bearing: the old record is deleted and its
// tally decremented before the new record is inserted and its tally
// incremented, and every ledger write precedes its tally mutation. A crash
// between the two halves of a revote undercounts the old option by one until
// the next rebuild; it never corrupts a counter or double-counts.
func (r *Recorder) RecordVote(ctx context.Context, sessionID, pollID, optionID string) (Result, error) {
	minted := false
	if sessionID == "" {
		var err error
		sessionID, err = session.MintToken()
		if err != nil {
			return Result{}, fmt.Errorf("failed to mint session: %w", err)
		}
		minted = true
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return Result{}, ctx.Err()
			case <-time.After(time.Duration(attempt) * retryBackoff):
			}
		}

		existing, err := r.ledger.FindBySessionAndPoll(ctx, sessionID, pollID)
		switch {
		case err == nil && existing.PollOptionID == optionID:
			// Duplicate vote: reject with zero side effects.
			return Result{}, ErrAlreadyVoted

		case err == nil:
			// Option change: retire the old record, then give back its tally
			// unit. Two independent signed operations, not a replace. The
			// decrement is owed only if this request actually removed the
			// row; a concurrent revote from the same session may have
			// replaced it after our lookup, and its tally unit is not ours
			// to take. In that case the insert below conflicts and the loop
			// re-reads the current record.
			removed, err := r.ledger.DeleteByID(ctx, existing.ID)
			if err != nil {
				return Result{}, fmt.Errorf("failed to retire previous vote: %w", err)
			}
			if removed {
				if _, err := r.tally.Increment(ctx, pollID, existing.PollOptionID, -1); err != nil {
					return Result{}, fmt.Errorf("failed to decrement previous option: %w", err)
				}
			}

		case !errors.Is(err, ledger.ErrNotFound):
			return Result{}, fmt.Errorf("failed to look up vote: %w", err)
		}

		vote := models.Vote{
			ID:           uuid.NewString(),
			SessionID:    sessionID,
			PollID:       pollID,
			PollOptionID: optionID,
			CreatedAt:    time.Now(),
		}
		if err := r.ledger.Insert(ctx, vote); err != nil {
			if errors.Is(err, ledger.ErrConflictingVote) {
				// Lost the race between lookup and insert; re-read and retry.
				slog.Warn("vote insert conflicted, retrying",
					"poll_id", pollID,
					"attempt", attempt+1,
				)
				continue
			}
			return Result{}, fmt.Errorf("failed to insert vote: %w", err)
		}

		// The durable write succeeded; only now does the counter move.
		newCount, err := r.tally.Increment(ctx, pollID, optionID, 1)
		if err != nil {
			return Result{}, fmt.Errorf("failed to increment tally: %w", err)
		}

		r.pub.Publish(pollID, broadcast.Event{
			PollID:       pollID,
			PollOptionID: optionID,
			Count:        newCount,
		})

		slog.Info("vote recorded",
			"poll_id", pollID,
			"option_id", optionID,
			"count", newCount,
			"minted_session", minted,
		)
		return Result{SessionID: sessionID, Minted: minted}, nil
	}

	return Result{}, fmt.Errorf("%w after %d attempts", ErrConflict, maxAttempts)
}
