package oauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ClientSecret holds the OAuth application credentials from a Google
// client-secret JSON file.
type ClientSecret struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"` // #nosec G117 - field of the user-supplied credentials file
	RedirectURIs []string `json:"redirect_uris"`
}

// LoadClientSecret reads a client secret file as downloaded from the Google
// Cloud console. Both "installed" (desktop app) and "web" layouts are
// accepted.
func LoadClientSecret(path string) (*ClientSecret, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is user-supplied by design
	if err != nil {
		return nil, fmt.Errorf("failed to read client secret file: %w", err)
	}

	var file struct {
		Installed *ClientSecret `json:"installed"`
		Web       *ClientSecret `json:"web"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse client secret file: %w", err)
	}

	secret := file.Installed
	if secret == nil {
		secret = file.Web
	}
	if secret == nil {
		return nil, errors.New(`client secret file has neither an "installed" nor a "web" section`)
	}
	if secret.ClientID == "" || secret.ClientSecret == "" {
		return nil, errors.New("client secret file is missing client_id or client_secret")
	}

	return secret, nil
}
