// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package broadcast

import "sync"

// Event describes a tally's new count after one net change.
type Event struct {
	PollID       string `json:"poll_id"`
	PollOptionID string `json:"poll_option_id"`
	Count        int64  `json:"count"`
}

// DefaultQueueSize bounds each subscriber's delivery queue. A subscriber
// that falls more than this many events behind starts losing the oldest.
const DefaultQueueSize = 16

// Broadcaster fans tally events out to live subscribers, one topic per poll.
// Delivery is best-effort and at-most-once: a full subscriber queue drops its
// oldest event rather than blocking the publisher, so a stalled viewer can
// never slow down voting.
type Broadcaster struct {
	mu        sync.Mutex
	topics    map[string]map[*Subscription]struct{}
	queueSize int
}

// Subscription is one subscriber's live event queue for a single poll.
type Subscription struct {
	b      *Broadcaster
	pollID string
	ch     chan Event
	done   bool
}

func New() *Broadcaster {
	return NewWithQueueSize(DefaultQueueSize)
}

func NewWithQueueSize(queueSize int) *Broadcaster {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Broadcaster{
		topics:    make(map[string]map[*Subscription]struct{}),
		queueSize: queueSize,
	}
}

// Subscribe registers a new subscriber for a poll's events. Subscribing to a
// poll nobody publishes to yields an empty but live stream.
func (b *Broadcaster) Subscribe(pollID string) *Subscription {
	sub := &Subscription{
		b:      b,
		pollID: pollID,
		ch:     make(chan Event, b.queueSize),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.topics[pollID]
	if !ok {
		subs = make(map[*Subscription]struct{})
		b.topics[pollID] = subs
	}
	subs[sub] = struct{}{}
	return sub
}

// Publish enqueues the event on every current subscriber of the poll without
// ever blocking. Full queues lose their oldest event first.
func (b *Broadcaster) Publish(pollID string, ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.topics[pollID] {
		select {
		case sub.ch <- ev:
		default:
			// Queue full: drop the oldest queued event to make room. The
			// send below cannot block; publishes are serialized by the lock
			// and a concurrent receive only frees more space.
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- ev:
			default:
			}
		}
	}
}

// C is the subscriber's event stream. The channel is closed by Cancel.
func (s *Subscription) C() <-chan Event {
	return s.ch
}

// Cancel deregisters the subscription and closes its queue. Cancellation is
// synchronous with respect to publishes: once Cancel returns, no further
// event is delivered. Cancel is idempotent.
func (s *Subscription) Cancel() {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	if s.done {
		return
	}
	s.done = true

	subs := s.b.topics[s.pollID]
	delete(subs, s)
	if len(subs) == 0 {
		delete(s.b.topics, s.pollID)
	}
	close(s.ch)
}
