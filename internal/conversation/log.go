// ABOUTME: Ordered, deduplicated message log for the active room
// ABOUTME: Single mutable resource shared by initial load, pagination, and send

package conversation

import (
	"sync"

	"github.com/bipulkrdas/meetmind/internal/api"
)

// Log holds one room's message sequence and associated state. It is an
// explicitly owned value, created at room entry; nothing in this package
// keeps ambient global state. All methods are safe for concurrent use.
//
// Invariants after every mutation: the sequence is sorted ascending by
// seq_no, no two messages share an id, and the head message's id is the
// cursor for backward pagination.
type Log struct {
	mu           sync.RWMutex
	room         *api.RoomDetails
	messages     []api.Message
	participants []api.Participant
	seen         map[string]struct{}
	loading      bool
	err          error
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{seen: make(map[string]struct{})}
}

// Initialize replaces the message sequence wholesale, clearing any prior
// room's messages first. The batch is the backend's page, oldest-first;
// messages with duplicate ids are dropped, keeping the first occurrence.
func (l *Log) Initialize(messages []api.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = l.messages[:0]
	l.seen = make(map[string]struct{}, len(messages))
	for _, m := range messages {
		if _, dup := l.seen[m.ID]; dup {
			continue
		}
		l.seen[m.ID] = struct{}{}
		l.messages = append(l.messages, m)
	}
}

// Append inserts a message at the tail. The caller guarantees the
// message's seq_no is the new maximum (true for server-confirmed sends);
// no re-sort is performed on this path. Returns false if the id is
// already present.
func (l *Log) Append(message api.Message) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, dup := l.seen[message.ID]; dup {
		return false
	}
	l.seen[message.ID] = struct{}{}
	l.messages = append(l.messages, message)
	return true
}

// Prepend inserts a batch at the head, preserving the batch's relative
// order. The batch is assumed sorted ascending and strictly older than
// the current head. Messages already present are skipped. Returns the
// number of messages inserted.
func (l *Log) Prepend(older []api.Message) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	fresh := make([]api.Message, 0, len(older))
	for _, m := range older {
		if _, dup := l.seen[m.ID]; dup {
			continue
		}
		l.seen[m.ID] = struct{}{}
		fresh = append(fresh, m)
	}
	if len(fresh) == 0 {
		return 0
	}
	l.messages = append(fresh, l.messages...)
	return len(fresh)
}

// Reset clears messages, participants, room, and error/loading flags.
// Invoked on room exit so no state bleeds into the next room's view.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.room = nil
	l.messages = nil
	l.participants = nil
	l.seen = make(map[string]struct{})
	l.loading = false
	l.err = nil
}

// Messages returns a snapshot copy of the sequence, oldest first.
func (l *Log) Messages() []api.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]api.Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of messages held.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// OldestID returns the head message's id, the cursor for loading older
// history. ok is false when the log is empty.
func (l *Log) OldestID() (id string, ok bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.messages) == 0 {
		return "", false
	}
	return l.messages[0].ID, true
}

// Room returns the active room's metadata, or nil before the initial
// load completes.
func (l *Log) Room() *api.RoomDetails {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.room
}

// Participants returns a snapshot copy of the roster.
func (l *Log) Participants() []api.Participant {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]api.Participant, len(l.participants))
	copy(out, l.participants)
	return out
}

// Loading reports whether a load (initial or pagination) is in flight.
func (l *Log) Loading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loading
}

// Err returns the room-level error flag, or nil.
func (l *Log) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

func (l *Log) setRoom(room *api.RoomDetails) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.room = room
}

func (l *Log) setParticipants(participants []api.Participant) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.participants = participants
}

func (l *Log) addParticipant(participant api.Participant) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.participants = append(l.participants, participant)
}

func (l *Log) setLoading(loading bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = loading
}

func (l *Log) setErr(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = err
}
