// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tally maintains the live vote counters.

A counter exists per (poll, option) key, created lazily at zero and mutated
only through signed ±1 increments. Increments are atomic per key and
independent across keys: a hot option contends only with itself, never with
the rest of its poll.

Counts never go negative. A decrement that would underflow is clamped to
zero and logged as a consistency warning; the ledger remains authoritative
and Rebuild reseeds the counters from it.

# Implementations

  - MemStore: sync.Map of atomic counters, the default for a single process
  - RedisStore: one Redis hash per poll (HINCRBY / HGETALL), selected with
    REDIS_URL, survives restarts and can be shared between processes

Snapshot reads are point-in-time, not linearizable with concurrent
increments; live clients treat the stream of delta events as incremental
updates on top of a fetched snapshot.
*/
package tally
