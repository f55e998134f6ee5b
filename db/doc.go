// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db creates the database schema for Pollwire.

# Tables

  - poll: the poll catalog
  - poll_option: each poll's fixed option set
  - vote: the durable vote ledger, UNIQUE (session_id, poll_id)

The vote table's uniqueness constraint is the source of truth for
"one revisable vote per session per poll". The recorder package relies on
insert failures from this constraint to detect concurrent votes.

The schema is portable across the two supported drivers (sqlite and
postgres): no backend-specific column defaults, timestamps are always
written by the application.

# Usage

	if err := db.CreateSchema(dbConn); err != nil {
		...
	}

CreateSchema is idempotent (IF NOT EXISTS) and runs at every boot.
*/
package db
