// Package oauth provides OAuth 2.0 utilities for liketrim.
package oauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var ErrTokenNotFound = errors.New("token not found")

// Config holds the OAuth 2.0 client configuration for a provider.
type Config struct {
	ClientID     string
	ClientSecret string // #nosec G117 - OAuth config field, not an exposed secret
	AuthURL      string
	TokenURL     string
	RedirectURL  string
	Scopes       []string
}

// Validate checks that all required configuration fields are present.
func (c Config) Validate() error {
	if c.ClientID == "" {
		return errors.New("client ID is required")
	}
	if c.ClientSecret == "" {
		return errors.New("client secret is required")
	}
	if c.RedirectURL == "" {
		return errors.New("redirect URL is required")
	}
	if len(c.Scopes) == 0 {
		return errors.New("at least one scope is required")
	}
	return nil
}

// YouTubeOAuthConfig returns the OAuth configuration for the YouTube Data API.
// The force-ssl scope covers both reading the liked-videos playlist and
// removing items from it.
func YouTubeOAuthConfig(clientID, clientSecret, redirectURL string) Config {
	return Config{ // #nosec G101 -- OAuth URLs are public API endpoints, not hardcoded credentials
		ClientID:     clientID,
		ClientSecret: clientSecret,
		AuthURL:      "https://accounts.google.com/o/oauth2/v2/auth",
		TokenURL:     "https://oauth2.googleapis.com/token",
		RedirectURL:  redirectURL,
		Scopes:       []string{"https://www.googleapis.com/auth/youtube.force-ssl"},
	}
}

// Token is an OAuth 2.0 access/refresh token pair.
type Token struct {
	AccessToken  string    `json:"access_token"`  // #nosec G117 - OAuth token field, not an exposed secret
	RefreshToken string    `json:"refresh_token"` // #nosec G117 - OAuth token field, not an exposed secret
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// expirySkew is subtracted from the expiry so a token about to lapse
// mid-request is treated as already expired.
const expirySkew = 30 * time.Second

// Valid reports whether the token can still be used for API calls.
// Tokens without a recorded expiry are assumed valid.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}
	if t.Expiry.IsZero() {
		return true
	}
	return time.Until(t.Expiry) > expirySkew
}

// TokenStorage persists tokens to a directory as token.json.
type TokenStorage struct {
	dir string
}

// NewTokenStorage creates a TokenStorage rooted at dir.
func NewTokenStorage(dir string) *TokenStorage {
	return &TokenStorage{dir: dir}
}

// Path returns the location of the token file.
func (s *TokenStorage) Path() string {
	return filepath.Join(s.dir, "token.json")
}

// Save writes the token to token.json, creating the directory if needed.
func (s *TokenStorage) Save(token *Token) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	return os.WriteFile(s.Path(), data, 0600)
}

// Load reads a previously saved token. Returns ErrTokenNotFound when no
// token has been saved yet.
func (s *TokenStorage) Load() (*Token, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token: %w", err)
	}

	return &token, nil
}
