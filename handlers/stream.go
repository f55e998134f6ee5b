// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/pollwire/broadcast"
	"github.com/danielhkuo/pollwire/middleware"
)

type StreamHandler struct {
	db    *sql.DB
	bcast *broadcast.Broadcaster
}

func NewStreamHandler(db *sql.DB, bcast *broadcast.Broadcaster) *StreamHandler {
	return &StreamHandler{db: db, bcast: bcast}
}

// Results handles GET /polls/:id/results/stream
//
// Streams tally delta events for one poll as Server-Sent Events until the
// client disconnects. Delivery is best-effort with no replay: clients fetch
// GET /polls/:id for the snapshot baseline and apply these deltas on top.
func (h *StreamHandler) Results(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	var exists bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM poll WHERE id = $1)`, pollID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	sub := h.bcast.Subscribe(pollID)
	defer sub.Cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	slog.Info("results stream opened", "poll_id", pollID, "remote", r.RemoteAddr)

	for {
		select {
		case <-r.Context().Done():
			slog.Info("results stream closed", "poll_id", pollID)
			return
		case ev, open := <-sub.C():
			if !open {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				slog.Error("failed to encode tally event", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				// Client went away mid-write; context cancellation follows.
				return
			}
			flusher.Flush()
		}
	}
}
