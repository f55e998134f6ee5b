// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Pollwire API server.

Pollwire is a real-time polling service: browsers cast one vote per poll,
may move that vote to a different option at any time, and watch live
per-option counts over a streaming results feed.

# Starting the Server

The server reads environment variables (optionally from a .env file) or
CLI flags:

	SESSION_SECRET=... DATABASE_URL=pollwire.db go run .

Or with flags:

	go run . -p 3000 -t sqlite -d pollwire.db -session-secret "..."

# Configuration

Required settings:

  - SESSION_SECRET (-session-secret): Secret for signing session cookies

Optional settings:

  - PORT (-p): Server port (default: 3000)
  - DATABASE_TYPE (-t): "sqlite" or "postgres" (default: sqlite)
  - DATABASE_URL (-d): Database connection string
  - REDIS_URL (-r): Redis URL for the live tally store; counts are kept
    in process memory when unset

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (polls, votes, results stream)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - session: Signed session cookie minting and verification
  - ledger: Durable one-row-per-voter vote storage
  - tally: Live per-option counters (in-memory or Redis)
  - broadcast: Per-poll fan-out of tally change events
  - recorder: The vote state machine tying ledger, tally, and broadcast
    together
  - db: Schema creation
  - cliparse: Configuration parsing

On boot the live counters are rebuilt from the ledger, so restarts never
lose durable votes.

See package documentation for each component.
*/
package main
