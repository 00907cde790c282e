// ABOUTME: Bearer credential storage and unverified JWT inspection
// ABOUTME: Env var wins over the token file under the user config dir

package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenEnvVar overrides the stored token when set.
const TokenEnvVar = "MEETMIND_TOKEN"

// ErrNoToken reports that no credential is available anywhere.
var ErrNoToken = errors.New("no token: sign in first or set " + TokenEnvVar)

// TokenPath returns the token file location,
// $XDG_CONFIG_HOME/meetmind/token (or ~/.config/meetmind/token).
func TokenPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "meetmind", "token"), nil
}

// LoadToken returns the bearer credential: the environment variable if
// set, otherwise the token file. Returns ErrNoToken when neither exists.
func LoadToken() (string, error) {
	if token := os.Getenv(TokenEnvVar); token != "" {
		return token, nil
	}

	path, err := TokenPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("reading token file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// SaveToken writes the credential to the token file, creating the
// config directory if needed. The file is user-readable only.
func SaveToken(token string) error {
	path, err := TokenPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

// TokenInfo is what Inspect can read from a credential without
// verifying it.
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the token's expiry has passed. A token
// without an exp claim never reads as expired here; the backend decides.
func (i *TokenInfo) Expired() bool {
	return !i.ExpiresAt.IsZero() && time.Now().After(i.ExpiresAt)
}

// Inspect parses the token WITHOUT verifying its signature and returns
// the subject and expiry claims. This exists purely for user-facing
// expiry warnings; authorization decisions belong to the backend.
func Inspect(token string) (*TokenInfo, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	info := &TokenInfo{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}
