// ABOUTME: On-demand transcript resolution for meeting_transcript messages
// ABOUTME: One fetch per open, no retry, no client-side caching

package transcript

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bipulkrdas/meetmind/internal/api"
)

// ErrMissingLocator reports a transcript request for a message that
// lacks the storage metadata needed to locate its body.
var ErrMissingLocator = errors.New("message has no transcript locator")

// Fetcher is what the resolver needs from the backend client.
type Fetcher interface {
	FetchTranscript(ctx context.Context, roomID, messageID, key string) (*api.Transcript, error)
}

// Resolver fetches transcript bodies on demand.
type Resolver struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewResolver creates a resolver. Pass nil logger for the default.
func NewResolver(fetcher Fetcher, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		fetcher: fetcher,
		logger:  logger.With("component", "transcript"),
	}
}

// Resolve fetches the full transcript for a meeting_transcript message.
// It fails with ErrMissingLocator when the message is not a transcript
// message or carries no locator; fetch errors are returned unmodified
// for the caller to surface.
func (r *Resolver) Resolve(ctx context.Context, msg *api.Message) (*api.Transcript, error) {
	locator := Locator(msg)
	if locator == nil {
		return nil, ErrMissingLocator
	}

	transcript, err := r.fetcher.FetchTranscript(ctx, msg.RoomID, msg.ID, locator.StorageKeys.JSON)
	if err != nil {
		return nil, fmt.Errorf("fetching transcript for message %s: %w", msg.ID, err)
	}

	r.logger.Debug("transcript resolved",
		"message_id", msg.ID,
		"items", len(transcript.Items))
	return transcript, nil
}

// Locator extracts a message's transcript locator, or nil when the
// message cannot be resolved to a transcript.
func Locator(msg *api.Message) *api.TranscriptLocator {
	if msg == nil || msg.MessageType != api.MessageTypeTranscript {
		return nil
	}
	if msg.ExtraData == nil || msg.ExtraData.Transcript == nil {
		return nil
	}
	if msg.ExtraData.Transcript.StorageKeys.JSON == "" {
		return nil
	}
	return msg.ExtraData.Transcript
}
