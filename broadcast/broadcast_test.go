// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package broadcast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanOut(t *testing.T) {
	b := New()

	sub1 := b.Subscribe("p1")
	defer sub1.Cancel()
	sub2 := b.Subscribe("p1")
	defer sub2.Cancel()
	other := b.Subscribe("p2")
	defer other.Cancel()

	ev := Event{PollID: "p1", PollOptionID: "optA", Count: 1}
	b.Publish("p1", ev)

	assert.Equal(t, ev, <-sub1.C())
	assert.Equal(t, ev, <-sub2.C())

	select {
	case got := <-other.C():
		t.Fatalf("subscriber of another poll received %+v", got)
	default:
	}
}

func TestSubscribeQuietTopic(t *testing.T) {
	b := New()

	// No publisher exists for this poll; the stream is empty but live.
	sub := b.Subscribe("nobody-publishes")
	defer sub.Cancel()

	select {
	case ev, ok := <-sub.C():
		t.Fatalf("unexpected receive %+v (ok=%v)", ev, ok)
	case <-time.After(10 * time.Millisecond):
	}
}

func TestPublishNeverBlocksOnStalledSubscriber(t *testing.T) {
	b := NewWithQueueSize(4)

	stalled := b.Subscribe("p1")
	defer stalled.Cancel()
	healthy := b.Subscribe("p1")
	defer healthy.Cancel()

	// Publish far more events than the stalled subscriber's queue holds.
	// If Publish ever blocked, this loop would deadlock the test.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 1; i <= 100; i++ {
			b.Publish("p1", Event{PollID: "p1", PollOptionID: "optA", Count: int64(i)})
			// Keep the healthy subscriber drained so only the stalled one fills.
			select {
			case <-healthy.C():
			default:
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a stalled subscriber")
	}
}

func TestDropOldestKeepsNewest(t *testing.T) {
	b := NewWithQueueSize(3)

	sub := b.Subscribe("p1")
	defer sub.Cancel()

	for i := 1; i <= 10; i++ {
		b.Publish("p1", Event{PollID: "p1", PollOptionID: "optA", Count: int64(i)})
	}

	// The queue holds the 3 newest events; everything older was dropped.
	var got []int64
	for i := 0; i < 3; i++ {
		select {
		case ev := <-sub.C():
			got = append(got, ev.Count)
		default:
			t.Fatalf("expected 3 queued events, got %d", len(got))
		}
	}
	assert.Equal(t, []int64{8, 9, 10}, got)
}

func TestCancelStopsDelivery(t *testing.T) {
	b := New()

	sub := b.Subscribe("p1")
	b.Publish("p1", Event{PollID: "p1", PollOptionID: "optA", Count: 1})
	sub.Cancel()
	b.Publish("p1", Event{PollID: "p1", PollOptionID: "optA", Count: 2})

	// The pre-cancel event is still queued; the channel then closes with
	// nothing published after cancellation.
	ev, ok := <-sub.C()
	require.True(t, ok)
	assert.Equal(t, int64(1), ev.Count)

	_, ok = <-sub.C()
	assert.False(t, ok, "channel must be closed after Cancel")
}

func TestCancelIdempotent(t *testing.T) {
	b := New()
	sub := b.Subscribe("p1")

	sub.Cancel()
	sub.Cancel() // second cancel must not panic on the closed channel
}

func TestCancelReleasesTopic(t *testing.T) {
	b := New()

	sub := b.Subscribe("p1")
	sub.Cancel()

	b.mu.Lock()
	_, exists := b.topics["p1"]
	b.mu.Unlock()
	assert.False(t, exists, "empty topic must be deregistered")
}
