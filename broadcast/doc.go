// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package broadcast fans tally delta events out to live subscribers.

Topics are keyed by poll ID. Each subscriber owns an independent bounded
queue; when a queue is full the oldest event is dropped so a slow or stalled
subscriber never blocks the publisher or its fellow subscribers. There is no
replay buffer: clients fetch a tally snapshot on (re)connect and treat the
stream as incremental updates on top of it.

	sub := b.Subscribe(pollID)
	defer sub.Cancel()
	for ev := range sub.C() {
		...
	}

Cancel deregisters synchronously; after it returns no event is delivered and
the queue channel is closed, which ends the range loop above.
*/
package broadcast
