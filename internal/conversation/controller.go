// ABOUTME: Conversation controller sequencing room load, pagination, send, and invites
// ABOUTME: Generation tokens discard responses that resolve after room exit

package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bipulkrdas/meetmind/internal/api"
)

// DefaultPageSize is the number of messages fetched per page.
const DefaultPageSize = 20

var (
	// ErrSuperseded reports that a result arrived after the room it
	// targeted was exited or re-entered and was discarded.
	ErrSuperseded = errors.New("room state superseded, result discarded")

	// ErrEmptyMessage reports a send with neither text nor attachments.
	ErrEmptyMessage = errors.New("message has no content or attachments")
)

// MessageBackend is what the controller needs from the message service.
type MessageBackend interface {
	ListMessages(ctx context.Context, roomID string, opts api.ListMessagesOptions) ([]api.Message, error)
	CreateMessage(ctx context.Context, roomID, content string, attachmentIDs []string) (*api.Message, error)
}

// RoomDirectory is what the controller needs from the room/participant
// directory service.
type RoomDirectory interface {
	GetRoom(ctx context.Context, roomID string) (*api.RoomDetails, error)
	ListParticipants(ctx context.Context, roomID string) ([]api.Participant, error)
	AddParticipant(ctx context.Context, roomID string, req api.AddParticipantRequest) (*api.Participant, error)
}

// Controller orchestrates the conversation view for one room at a time.
// It owns a Log and applies every async result through a generation
// check, so responses resolving after Reset are dropped.
type Controller struct {
	backend  MessageBackend
	rooms    RoomDirectory
	logger   *slog.Logger
	log      *Log
	pageSize int

	mu     sync.Mutex
	roomID string
	gen    uint64
	paging bool
}

// NewController creates a controller. Pass nil logger for the default.
func NewController(backend MessageBackend, rooms RoomDirectory, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		backend:  backend,
		rooms:    rooms,
		logger:   logger.With("component", "conversation"),
		log:      NewLog(),
		pageSize: DefaultPageSize,
	}
}

// Log returns the controller's message log for rendering.
func (c *Controller) Log() *Log {
	return c.log
}

// RoomID returns the active room id, empty after Reset.
func (c *Controller) RoomID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomID
}

// LoadInitialData enters a room: it fetches the room metadata, the most
// recent page of messages, and the participant roster, strictly in that
// order. The fetches are sequential so a room failure short-circuits the
// rest and the backend's per-room read path is not contended. On failure
// the room-level error flag is set and already-fetched data is retained.
func (c *Controller) LoadInitialData(ctx context.Context, roomID string) error {
	gen := c.enter(roomID)
	defer c.applyIf(gen, func() { c.log.setLoading(false) })

	room, err := c.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return c.fail(gen, fmt.Errorf("loading room: %w", err))
	}
	if !c.applyIf(gen, func() { c.log.setRoom(room) }) {
		return ErrSuperseded
	}

	messages, err := c.backend.ListMessages(ctx, roomID, api.ListMessagesOptions{Limit: c.pageSize})
	if err != nil {
		return c.fail(gen, fmt.Errorf("loading messages: %w", err))
	}
	if !c.applyIf(gen, func() { c.log.Initialize(messages) }) {
		return ErrSuperseded
	}

	participants, err := c.rooms.ListParticipants(ctx, roomID)
	if err != nil {
		return c.fail(gen, fmt.Errorf("loading participants: %w", err))
	}
	if !c.applyIf(gen, func() { c.log.setParticipants(participants) }) {
		return ErrSuperseded
	}

	c.logger.Debug("room loaded",
		"room_id", roomID,
		"messages", len(messages),
		"participants", len(participants))
	return nil
}

// LoadMoreMessages fetches the page of messages strictly older than the
// current head and prepends it. It is a no-op while another pagination
// call is in flight or when the log is empty; rapid repeated invocation
// performs exactly one network call.
func (c *Controller) LoadMoreMessages(ctx context.Context) error {
	c.mu.Lock()
	oldest, ok := c.log.OldestID()
	if c.paging || !ok {
		c.mu.Unlock()
		return nil
	}
	c.paging = true
	gen := c.gen
	roomID := c.roomID
	c.log.setLoading(true)
	c.mu.Unlock()

	defer c.applyIf(gen, func() {
		c.paging = false
		c.log.setLoading(false)
	})

	older, err := c.backend.ListMessages(ctx, roomID, api.ListMessagesOptions{
		Limit:  c.pageSize,
		Before: oldest,
	})
	if err != nil {
		return c.fail(gen, fmt.Errorf("loading older messages: %w", err))
	}
	if !c.applyIf(gen, func() { c.log.Prepend(older) }) {
		return ErrSuperseded
	}

	c.logger.Debug("older messages loaded", "room_id", roomID, "count", len(older))
	return nil
}

// Send creates a message in the active room and appends the
// server-confirmed result to the log. No optimistic placeholder is
// inserted; the log only ever holds messages the backend acknowledged.
func (c *Controller) Send(ctx context.Context, content string, attachmentIDs []string) (*api.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" && len(attachmentIDs) == 0 {
		return nil, ErrEmptyMessage
	}

	c.mu.Lock()
	gen := c.gen
	roomID := c.roomID
	c.mu.Unlock()

	message, err := c.backend.CreateMessage(ctx, roomID, content, attachmentIDs)
	if err != nil {
		return nil, fmt.Errorf("sending message: %w", err)
	}
	if !c.applyIf(gen, func() { c.log.Append(*message) }) {
		// The message was created server-side but the room was exited;
		// it will appear in history on the next entry.
		return message, ErrSuperseded
	}
	return message, nil
}

// AddParticipant invites a participant and appends the created roster
// entry locally; the full roster is not re-fetched.
func (c *Controller) AddParticipant(ctx context.Context, req api.AddParticipantRequest) (*api.Participant, error) {
	c.mu.Lock()
	gen := c.gen
	roomID := c.roomID
	c.mu.Unlock()

	participant, err := c.rooms.AddParticipant(ctx, roomID, req)
	if err != nil {
		return nil, fmt.Errorf("adding participant: %w", err)
	}
	if !c.applyIf(gen, func() { c.log.addParticipant(*participant) }) {
		return participant, ErrSuperseded
	}
	return participant, nil
}

// Reset clears all room state and advances the generation so any
// in-flight response is discarded on arrival. Safe to call while fetches
// are pending; invoked unconditionally on room exit.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.gen++
	c.paging = false
	c.roomID = ""
	c.mu.Unlock()
	c.log.Reset()
}

// enter starts a fresh generation for a room and resets prior state.
func (c *Controller) enter(roomID string) uint64 {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.paging = false
	c.roomID = roomID
	c.mu.Unlock()

	c.log.Reset()
	c.log.setLoading(true)
	return gen
}

// applyIf runs fn only when gen is still the current generation,
// returning whether it ran. The check and the application are atomic
// with respect to Reset and enter.
func (c *Controller) applyIf(gen uint64, fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	fn()
	return true
}

// fail records err as the room-level error flag (unless superseded) and
// returns it. Partial data fetched before the failure is retained.
func (c *Controller) fail(gen uint64, err error) error {
	if !c.applyIf(gen, func() { c.log.setErr(err) }) {
		return ErrSuperseded
	}
	c.logger.Warn("room fetch failed", "error", err)
	return err
}
