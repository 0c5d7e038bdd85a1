package oauth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"valid", Config{"id", "secret", "", "", "http://localhost", []string{"read"}}, false},
		{"no client ID", Config{"", "secret", "", "", "http://localhost", []string{"read"}}, true},
		{"no secret", Config{"id", "", "", "", "http://localhost", []string{"read"}}, true},
		{"no redirect", Config{"id", "secret", "", "", "", []string{"read"}}, true},
		{"no scopes", Config{"id", "secret", "", "", "http://localhost", nil}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestYouTubeOAuthConfig(t *testing.T) {
	config := YouTubeOAuthConfig("client-id", "client-secret", "http://localhost:8080/callback")

	if err := config.Validate(); err != nil {
		t.Fatalf("preset config should validate: %v", err)
	}
	if config.AuthURL == "" || config.TokenURL == "" {
		t.Error("preset should set Google OAuth endpoints")
	}
	if len(config.Scopes) != 1 || config.Scopes[0] != "https://www.googleapis.com/auth/youtube.force-ssl" {
		t.Errorf("preset should request the force-ssl scope, got %v", config.Scopes)
	}
}

func TestToken_Valid(t *testing.T) {
	tests := []struct {
		name  string
		token *Token
		want  bool
	}{
		{"nil token", nil, false},
		{"no access token", &Token{}, false},
		{"no expiry recorded", &Token{AccessToken: "abc"}, true},
		{"expires far in the future", &Token{AccessToken: "abc", Expiry: time.Now().Add(time.Hour)}, true},
		{"expires within skew", &Token{AccessToken: "abc", Expiry: time.Now().Add(10 * time.Second)}, false},
		{"already expired", &Token{AccessToken: "abc", Expiry: time.Now().Add(-time.Hour)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.token.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokenStorage(t *testing.T) {
	dir := t.TempDir()

	storage := NewTokenStorage(dir)
	token := &Token{AccessToken: "test", RefreshToken: "refresh", TokenType: "Bearer"}

	if err := storage.Save(token); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := storage.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.AccessToken != "test" {
		t.Errorf("wrong access token: %s", loaded.AccessToken)
	}
	if loaded.RefreshToken != "refresh" {
		t.Errorf("wrong refresh token: %s", loaded.RefreshToken)
	}

	// The cached token always lives in token.json under the storage dir.
	if filepath.Base(storage.Path()) != "token.json" {
		t.Errorf("token should be stored as token.json, got %s", storage.Path())
	}
}

func TestTokenStorage_NotFound(t *testing.T) {
	_, err := NewTokenStorage(t.TempDir()).Load()
	if !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestTokenStorage_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	storage := NewTokenStorage(filepath.Join(dir, "nested"))

	if err := storage.Save(&Token{AccessToken: "secret", TokenType: "Bearer"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	info, err := os.Stat(storage.Path())
	if err != nil {
		t.Fatalf("failed to stat token file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("token file permissions are %o, expected 0600", perm)
	}
}

func TestLoadClientSecret_Installed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client-secret.json")
	data := `{"installed":{"client_id":"my-id.apps.googleusercontent.com","client_secret":"my-secret","redirect_uris":["http://localhost"]}}`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	secret, err := LoadClientSecret(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret.ClientID != "my-id.apps.googleusercontent.com" {
		t.Errorf("wrong client ID: %s", secret.ClientID)
	}
	if secret.ClientSecret != "my-secret" {
		t.Errorf("wrong client secret: %s", secret.ClientSecret)
	}
}

func TestLoadClientSecret_Web(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client-secret.json")
	data := `{"web":{"client_id":"web-id","client_secret":"web-secret"}}`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	secret, err := LoadClientSecret(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret.ClientID != "web-id" {
		t.Errorf("wrong client ID: %s", secret.ClientID)
	}
}

func TestLoadClientSecret_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty object", `{}`},
		{"missing client_id", `{"installed":{"client_secret":"s"}}`},
		{"malformed JSON", `{"installed":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "client-secret.json")
			if err := os.WriteFile(path, []byte(tt.data), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadClientSecret(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadClientSecret_MissingFile(t *testing.T) {
	if _, err := LoadClientSecret(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
