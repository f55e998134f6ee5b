// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package recorder implements the idempotent vote-recording state machine.

RecordVote reconciles one vote request against the ledger and the tally
store, yielding a net delta of −1/+1/0 per session regardless of
interleaving:

 1. mint a session token if the request carried none
 2. look up the session's existing vote on the poll: same option rejects
    with ErrAlreadyVoted; a different option retires the old record and
    decrements its counter
 3. insert the new record: the ledger's unique (session, poll) index turns
    lookup/insert races into ErrConflictingVote, retried up to 5 times with
    backoff before surfacing ErrConflict
 4. increment the new option's counter
 5. publish the new count to the poll's broadcast topic

A rejected request has no side effects. Ledger writes always precede tally
mutations so every counted unit corresponds to a durable record; the revote
crash window can only undercount, which the boot-time rebuild repairs.
*/
package recorder
