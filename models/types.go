// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Request types

type CreatePollRequest struct {
	Title   string   `json:"title"`
	Options []string `json:"options"`
}

type VoteRequest struct {
	PollOptionID string `json:"poll_option_id"`
}

// Response types

type CreatePollResponse struct {
	PollID  string   `json:"poll_id"`
	Options []Option `json:"options"`
}

// OptionTally is an option annotated with its current vote count.
type OptionTally struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Score int64  `json:"score"`
}

type PollResponse struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	CreatedAt time.Time     `json:"created_at"`
	Options   []OptionTally `json:"options"`
}

// Domain types

type Poll struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type Option struct {
	ID     string `json:"id"`
	PollID string `json:"poll_id"`
	Title  string `json:"title"`
}

// Vote is one session's live choice on one poll. At most one vote exists
// per (session, poll); a revote replaces the row rather than updating it.
type Vote struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"-"` // Never expose in JSON
	PollID       string    `json:"poll_id"`
	PollOptionID string    `json:"poll_option_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
