// ABOUTME: Participant roster endpoints
// ABOUTME: Roster listing, invites, and live-session token acquisition

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListParticipants fetches a room's full roster.
func (c *Client) ListParticipants(ctx context.Context, roomID string) ([]Participant, error) {
	var participants []Participant
	path := fmt.Sprintf("/api/app/rooms/%s/participants", url.PathEscape(roomID))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &participants); err != nil {
		return nil, err
	}
	return participants, nil
}

// AddParticipant invites a participant to a room and returns the created
// roster entry.
func (c *Client) AddParticipant(ctx context.Context, roomID string, req AddParticipantRequest) (*Participant, error) {
	var participant Participant
	path := fmt.Sprintf("/api/app/rooms/%s/participants", url.PathEscape(roomID))
	if err := c.do(ctx, http.MethodPost, path, nil, req, &participant); err != nil {
		return nil, err
	}
	return &participant, nil
}

// SessionToken requests a join token for the room's live video session.
// The token is opaque to this client; media negotiation happens in the
// live-session provider's own tooling.
func (c *Client) SessionToken(ctx context.Context, roomID string) (string, error) {
	var resp struct {
		LiveKitToken string `json:"livekit_token"`
	}
	path := fmt.Sprintf("/api/app/rooms/%s/join_internal", url.PathEscape(roomID))
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.LiveKitToken, nil
}
