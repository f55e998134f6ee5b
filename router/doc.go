// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Pollwire API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, rec, store, bcast)

# Endpoints

Health:

	GET /health

Poll catalog (public):

	POST /polls      - Create poll with its fixed option set
	GET  /polls/{id} - Poll info, options, current tallies

Voting (public, session cookie):

	POST /polls/{id}/votes - Cast or change this session's vote

Live results (public):

	GET /polls/{id}/results/stream - Server-Sent Events tally deltas

# Handler Initialization

The router creates handler instances with dependency injection:

	pollHandler := handlers.NewPollHandler(db, store)
	voteHandler := handlers.NewVoteHandler(db, rec, cfg)
	streamHandler := handlers.NewStreamHandler(db, bcast)
*/
package router
