// ABOUTME: Message retrieval and creation endpoints
// ABOUTME: Cursor-based pagination keyed by message id, oldest-first pages

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListMessagesOptions control a message page fetch. Before and After are
// message-id cursors; at most one should be set.
type ListMessagesOptions struct {
	Limit  int
	Before string
	After  string
}

// ListMessages fetches one page of a room's messages, ordered oldest-first
// within the page. With no cursor the backend returns the most recent page.
func (c *Client) ListMessages(ctx context.Context, roomID string, opts ListMessagesOptions) ([]Message, error) {
	query := url.Values{}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Before != "" {
		query.Set("before", opts.Before)
	}
	if opts.After != "" {
		query.Set("after", opts.After)
	}

	var messages []Message
	path := fmt.Sprintf("/api/app/rooms/%s/messages", url.PathEscape(roomID))
	if err := c.do(ctx, http.MethodGet, path, query, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// createMessageRequest is the JSON body for message creation.
type createMessageRequest struct {
	Content       string   `json:"content"`
	AttachmentIDs []string `json:"attachment_ids,omitempty"`
}

// CreateMessage creates a message in a room and returns it with the
// server-assigned id and seq_no. attachmentIDs are backend attachment
// identifiers from UploadAttachment, not client-local file ids.
func (c *Client) CreateMessage(ctx context.Context, roomID, content string, attachmentIDs []string) (*Message, error) {
	body := createMessageRequest{Content: content, AttachmentIDs: attachmentIDs}

	var message Message
	path := fmt.Sprintf("/api/app/rooms/%s/messages", url.PathEscape(roomID))
	if err := c.do(ctx, http.MethodPost, path, nil, body, &message); err != nil {
		return nil, err
	}
	return &message, nil
}
