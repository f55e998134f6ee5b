// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/pollwire/broadcast"
	"github.com/danielhkuo/pollwire/cliparse"
	"github.com/danielhkuo/pollwire/handlers"
	"github.com/danielhkuo/pollwire/middleware"
	"github.com/danielhkuo/pollwire/recorder"
	"github.com/danielhkuo/pollwire/tally"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, rec *recorder.Recorder, store tally.Store, bcast *broadcast.Broadcaster) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(db, store)
	voteHandler := handlers.NewVoteHandler(db, rec, cfg)
	streamHandler := handlers.NewStreamHandler(db, bcast)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Poll catalog
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.GetPoll))

	// Voting
	mux.HandleFunc("POST /polls/{id}/votes", middleware.WithLogging(voteHandler.Vote))

	// Live results (no logging wrapper: the stream stays open for minutes)
	mux.HandleFunc("GET /polls/{id}/results/stream", streamHandler.Results)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pollwire API v1"))
	})

	return mux
}
