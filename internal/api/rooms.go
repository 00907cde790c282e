// ABOUTME: Room metadata endpoints
// ABOUTME: Read-only reference data for the conversation view

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// GetRoom fetches a single room's metadata with viewer-relative fields.
func (c *Client) GetRoom(ctx context.Context, roomID string) (*RoomDetails, error) {
	var details RoomDetails
	path := fmt.Sprintf("/api/app/rooms/%s", url.PathEscape(roomID))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// ListRooms fetches the rooms the authenticated user belongs to.
func (c *Client) ListRooms(ctx context.Context) ([]RoomDetails, error) {
	var rooms []RoomDetails
	if err := c.do(ctx, http.MethodGet, "/api/app/rooms", nil, nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}
