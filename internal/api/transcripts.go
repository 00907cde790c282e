// ABOUTME: Transcript body retrieval endpoint
// ABOUTME: One fetch per open; the storage key comes from the message's locator

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// FetchTranscript retrieves the full transcript body referenced by a
// meeting_transcript message. key is the JSON storage key from the
// message's transcript locator and may contain path separators.
func (c *Client) FetchTranscript(ctx context.Context, roomID, messageID, key string) (*Transcript, error) {
	var transcript Transcript
	path := fmt.Sprintf("/api/app/rooms/%s/transcript/%s/%s",
		url.PathEscape(roomID), url.PathEscape(messageID), escapeKeyPath(key))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &transcript); err != nil {
		return nil, err
	}
	return &transcript, nil
}
