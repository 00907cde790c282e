// ABOUTME: Fan-out event stream for attachment state changes
// ABOUTME: Multiple observers subscribe independently; slow subscribers drop events

package attach

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// subscriberBufferSize is the channel buffer for each subscriber.
const subscriberBufferSize = 64

// EventKind classifies an attachment event.
type EventKind string

const (
	// EventAdded fires when a file passes validation and joins the set.
	EventAdded EventKind = "added"
	// EventRemoved fires when a file is removed from the set.
	EventRemoved EventKind = "removed"
	// EventProgress fires on each monotonic upload progress tick.
	EventProgress EventKind = "progress"
	// EventUploaded fires when a file's upload completes.
	EventUploaded EventKind = "uploaded"
	// EventFailed fires when a file's upload fails.
	EventFailed EventKind = "failed"
)

// Event is one attachment state change. File is a snapshot taken at
// publish time; later mutations do not affect delivered events.
type Event struct {
	Kind EventKind
	File File
}

// broadcaster fans events out to all subscribers. Publishing never
// blocks: events are dropped for subscribers whose channels are full.
type broadcaster struct {
	mu   sync.RWMutex
	subs map[string]chan Event
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[string]chan Event)}
}

// subscribe registers an observer. The subscription is cleaned up when
// ctx is cancelled or unsubscribe is called with the returned id.
func (b *broadcaster) subscribe(ctx context.Context) (<-chan Event, string) {
	id := uuid.New().String()
	ch := make(chan Event, subscriberBufferSize)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.unsubscribe(id)
	}()

	return ch, id
}

func (b *broadcaster) unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	close(ch)
}

func (b *broadcaster) publish(ev Event) {
	// Sends stay under the read lock so a concurrent unsubscribe cannot
	// close a channel mid-send. Sends are non-blocking, so the lock is
	// held only briefly.
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber channel full; drop the event for it.
		}
	}
}
