// ABOUTME: Tests for transcript resolution and rendering
// ABOUTME: Verifies locator validation, verbatim error surfacing, and export output

package transcript

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bipulkrdas/meetmind/internal/api"
)

type fakeFetcher struct {
	transcript *api.Transcript
	err        error
	calls      int
	lastKey    string
}

func (f *fakeFetcher) FetchTranscript(ctx context.Context, roomID, messageID, key string) (*api.Transcript, error) {
	f.calls++
	f.lastKey = key
	if f.err != nil {
		return nil, f.err
	}
	return f.transcript, nil
}

func transcriptMessage() *api.Message {
	return &api.Message{
		ID:          "msg-1",
		RoomID:      "room-1",
		MessageType: api.MessageTypeTranscript,
		ExtraData: &api.ExtraData{
			Transcript: &api.TranscriptLocator{
				Bucket:      "meetings",
				StorageKeys: api.StorageKeys{JSON: "transcripts/2026/standup.json", Text: "transcripts/2026/standup.txt"},
			},
		},
	}
}

func sampleTranscript() *api.Transcript {
	start := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	return &api.Transcript{
		RoomName:     "standup",
		SessionStart: start,
		SessionEnd:   start.Add(30 * time.Minute),
		Items: []api.TranscriptItem{
			{
				Timestamp:   start.Add(time.Minute),
				SpeakerName: "Ada",
				Content:     []api.TranscriptContent{{Type: "text", Text: "Morning everyone."}},
			},
			{
				Timestamp:       start.Add(2 * time.Minute),
				SpeakerIdentity: "agent-7",
				Interrupted:     true,
				Content:         []api.TranscriptContent{{Type: "text", Text: "Yesterday I"}},
			},
		},
	}
}

func TestResolver_Resolve(t *testing.T) {
	fetcher := &fakeFetcher{transcript: sampleTranscript()}
	r := NewResolver(fetcher, nil)

	got, err := r.Resolve(context.Background(), transcriptMessage())
	require.NoError(t, err)
	assert.Equal(t, "standup", got.RoomName)
	assert.Equal(t, "transcripts/2026/standup.json", fetcher.lastKey)
}

func TestResolver_MissingLocator(t *testing.T) {
	fetcher := &fakeFetcher{transcript: sampleTranscript()}
	r := NewResolver(fetcher, nil)

	cases := map[string]*api.Message{
		"plain user message": {ID: "m1", MessageType: api.MessageTypeUser},
		"transcript type without extra data": {
			ID: "m2", MessageType: api.MessageTypeTranscript,
		},
		"locator without storage key": {
			ID: "m3", MessageType: api.MessageTypeTranscript,
			ExtraData: &api.ExtraData{Transcript: &api.TranscriptLocator{}},
		},
	}

	for name, msg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := r.Resolve(context.Background(), msg)
			assert.ErrorIs(t, err, ErrMissingLocator)
		})
	}
	assert.Zero(t, fetcher.calls, "no network fetch without a locator")
}

func TestResolver_FetchErrorSurfacedNoRetry(t *testing.T) {
	fetchErr := errors.New("storage unavailable")
	fetcher := &fakeFetcher{err: fetchErr}
	r := NewResolver(fetcher, nil)

	_, err := r.Resolve(context.Background(), transcriptMessage())
	assert.ErrorIs(t, err, fetchErr)
	assert.Equal(t, 1, fetcher.calls, "no automatic retry")
}

func TestResolver_NoCachingAcrossOpens(t *testing.T) {
	fetcher := &fakeFetcher{transcript: sampleTranscript()}
	r := NewResolver(fetcher, nil)
	msg := transcriptMessage()

	_, err := r.Resolve(context.Background(), msg)
	require.NoError(t, err)
	_, err = r.Resolve(context.Background(), msg)
	require.NoError(t, err)

	assert.Equal(t, 2, fetcher.calls, "each open re-fetches")
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleTranscript())

	assert.Contains(t, md, "# Meeting Transcript — standup")
	assert.Contains(t, md, "**Ada**: Morning everyone.")
	assert.Contains(t, md, "**agent-7**: Yesterday I _(interrupted)_")
	assert.Contains(t, md, "`09:01:00`")
}

func TestHTML(t *testing.T) {
	html, err := HTML(sampleTranscript())
	require.NoError(t, err)

	s := string(html)
	assert.Contains(t, s, "<h1>")
	assert.Contains(t, s, "<strong>Ada</strong>")
	assert.True(t, strings.Contains(s, "Morning everyone."))
}
