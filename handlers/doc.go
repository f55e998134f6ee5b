// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Pollwire API.

# Handler Types

Each handler is a struct with its dependencies injected via constructor:

  - PollHandler: poll catalog (create, get with live tallies)
  - VoteHandler: vote recording through the recorder state machine
  - StreamHandler: live tally delta stream (Server-Sent Events)

# Voting Flow

	POST /polls                     → CreatePoll (title + fixed option set)
	GET  /polls/{id}                → GetPoll (options with current counts)
	POST /polls/{id}/votes          → Vote (sets/refreshes session cookie)
	GET  /polls/{id}/results/stream → Results (SSE tally deltas)

A browser's first vote mints a session token, carried in a signed httpOnly
cookie. Voting the same option twice returns 400 with a human-readable
reason; changing options moves the session's single vote. All other
failures map to a generic server error with no internal detail.

# Live Results

The stream endpoint subscribes to the poll's broadcast topic and forwards
each delta as a JSON SSE message until the client disconnects. Clients
fetch GET /polls/{id} on (re)connect as the snapshot baseline; the stream
carries only incremental updates.
*/
package handlers
