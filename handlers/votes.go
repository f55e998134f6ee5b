// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/pollwire/cliparse"
	"github.com/danielhkuo/pollwire/middleware"
	"github.com/danielhkuo/pollwire/models"
	"github.com/danielhkuo/pollwire/recorder"
	"github.com/danielhkuo/pollwire/session"
)

type VoteHandler struct {
	db  *sql.DB
	rec *recorder.Recorder
	cfg cliparse.Config
}

func NewVoteHandler(db *sql.DB, rec *recorder.Recorder, cfg cliparse.Config) *VoteHandler {
	return &VoteHandler{db: db, rec: rec, cfg: cfg}
}

// Vote handles POST /polls/:id/votes
//
// The first vote from a browser mints a session; every response refreshes
// the signed session cookie. Success returns 201 with no body.
func (h *VoteHandler) Vote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.PollOptionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_option_id is required")
		return
	}

	// The vote must be scoped to a real option of a real poll.
	var optionExists bool
	err := h.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM poll_option
			WHERE id = $1 AND poll_id = $2
		)
	`, req.PollOptionID, pollID).Scan(&optionExists)
	if err != nil {
		slog.Error("failed to verify option", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !optionExists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll or option not found")
		return
	}

	sessionID, err := session.FromRequest(r, h.cfg.SessionSecret)
	if err != nil {
		// A tampered cookie is treated as no session at all; a fresh one
		// is minted below.
		slog.Warn("invalid session cookie signature", "remote", r.RemoteAddr)
		sessionID = ""
	}

	res, err := h.rec.RecordVote(r.Context(), sessionID, pollID, req.PollOptionID)
	switch {
	case errors.Is(err, recorder.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusBadRequest, "You already voted on this poll")
		return
	case errors.Is(err, recorder.ErrConflict):
		middleware.ErrorResponse(w, http.StatusConflict, "Vote conflicted, please retry")
		return
	case err != nil:
		slog.Error("failed to record vote", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	session.SetCookie(w, res.SessionID, h.cfg.SessionSecret)
	w.WriteHeader(http.StatusCreated)
}
