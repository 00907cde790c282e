// ABOUTME: Credential acquisition endpoints
// ABOUTME: Email/password sign-in yielding the bearer token used everywhere else

package api

import (
	"context"
	"net/http"
)

// signInRequest is the JSON body for sign-in.
type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn exchanges email/password credentials for a bearer token. The
// returned token is not installed on the client; call SetToken with it.
func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	body := signInRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/signin", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/app/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
