// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/danielhkuo/pollwire/models"
)

// SQLLedger stores vote records in the vote table created by the db package.
type SQLLedger struct {
	db *sql.DB
}

func NewSQLLedger(db *sql.DB) *SQLLedger {
	return &SQLLedger{db: db}
}

func (l *SQLLedger) FindBySessionAndPoll(ctx context.Context, sessionID, pollID string) (*models.Vote, error) {
	var v models.Vote
	err := l.db.QueryRowContext(ctx, `
		SELECT id, session_id, poll_id, poll_option_id, created_at
		FROM vote
		WHERE session_id = $1 AND poll_id = $2
	`, sessionID, pollID).Scan(&v.ID, &v.SessionID, &v.PollID, &v.PollOptionID, &v.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query vote: %w", err)
	}
	return &v, nil
}

func (l *SQLLedger) Insert(ctx context.Context, v models.Vote) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO vote (id, session_id, poll_id, poll_option_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, v.ID, v.SessionID, v.PollID, v.PollOptionID, v.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflictingVote
		}
		return fmt.Errorf("failed to insert vote: %w", err)
	}
	return nil
}

func (l *SQLLedger) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := l.db.ExecContext(ctx, `DELETE FROM vote WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete vote: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return n > 0, nil
}

func (l *SQLLedger) CountByOption(ctx context.Context, pollID string) (map[string]int64, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT poll_option_id, COUNT(*)
		FROM vote
		WHERE poll_id = $1
		GROUP BY poll_option_id
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var optionID string
		var n int64
		if err := rows.Scan(&optionID, &n); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts[optionID] = n
	}
	return counts, rows.Err()
}

// CountAll tallies live records per (poll, option) across every poll,
// for the boot-time tally rebuild.
func (l *SQLLedger) CountAll(ctx context.Context) (map[string]map[string]int64, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT poll_id, poll_option_id, COUNT(*)
		FROM vote
		GROUP BY poll_id, poll_option_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]map[string]int64)
	for rows.Next() {
		var pollID, optionID string
		var n int64
		if err := rows.Scan(&pollID, &optionID, &n); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		if counts[pollID] == nil {
			counts[pollID] = make(map[string]int64)
		}
		counts[pollID][optionID] = n
	}
	return counts, rows.Err()
}

// isUniqueViolation recognizes the unique-constraint errors of both
// supported drivers (modernc sqlite and lib/pq).
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
