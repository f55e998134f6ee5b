// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the
Pollwire API.

# Domain Types

  - Poll: a named decision with a fixed set of options
  - Option: one choice within a poll
  - Vote: one session's current choice on one poll

The vote table enforces at most one Vote per (session, poll). SessionID
never appears in JSON output.

# Request/Response Types

Requests are parsed from JSON bodies, responses encoded back via the
middleware helpers. OptionTally pairs an option with its live count for
GET /polls/{id}.
*/
package models
