// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/pollwire/middleware"
	"github.com/danielhkuo/pollwire/models"
	"github.com/danielhkuo/pollwire/tally"
)

type PollHandler struct {
	db    *sql.DB
	tally tally.Store
}

func NewPollHandler(db *sql.DB, store tally.Store) *PollHandler {
	return &PollHandler{db: db, tally: store}
}

// CreatePoll handles POST /polls
// A poll's option set is fixed at creation; there is no draft state.
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if len(req.Options) < 2 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "at least 2 options are required")
		return
	}
	for _, title := range req.Options {
		if title == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "option titles cannot be empty")
			return
		}
	}

	pollID := uuid.NewString()

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO poll (id, title, created_at)
		VALUES ($1, $2, $3)
	`, pollID, req.Title, time.Now())
	if err != nil {
		slog.Error("failed to insert poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	options := make([]models.Option, 0, len(req.Options))
	for _, title := range req.Options {
		opt := models.Option{ID: uuid.NewString(), PollID: pollID, Title: title}
		_, err = tx.Exec(`
			INSERT INTO poll_option (id, poll_id, title)
			VALUES ($1, $2, $3)
		`, opt.ID, opt.PollID, opt.Title)
		if err != nil {
			slog.Error("failed to insert option", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
			return
		}
		options = append(options, opt)
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", pollID, "options", len(options))

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID:  pollID,
		Options: options,
	})
}

// GetPoll handles GET /polls/:id
// Returns the poll, its options, and each option's current tally. Clients
// use this as the snapshot baseline under the live results stream.
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	var poll models.Poll
	err := h.db.QueryRow(`
		SELECT id, title, created_at
		FROM poll
		WHERE id = $1
	`, pollID).Scan(&poll.ID, &poll.Title, &poll.CreatedAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT id, title
		FROM poll_option
		WHERE poll_id = $1
		ORDER BY id
	`, poll.ID)
	if err != nil {
		slog.Error("failed to query options", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	options := []models.OptionTally{}
	for rows.Next() {
		var opt models.OptionTally
		if err := rows.Scan(&opt.ID, &opt.Title); err != nil {
			slog.Error("failed to scan option", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		options = append(options, opt)
	}

	counts, err := h.tally.Snapshot(r.Context(), poll.ID)
	if err != nil {
		slog.Error("failed to read tally snapshot", "error", err, "poll_id", poll.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Tally store error")
		return
	}
	for i := range options {
		options[i].Score = counts[options[i].ID]
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollResponse{
		ID:        poll.ID,
		Title:     poll.Title,
		CreatedAt: poll.CreatedAt,
		Options:   options,
	})
}
