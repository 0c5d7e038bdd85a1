package oauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrInvalidState is returned when the OAuth callback carries a state value
// that does not match the one sent with the authorization request.
var ErrInvalidState = errors.New("invalid state parameter")

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Flow drives the OAuth 2.0 authorization-code flow for a provider.
type Flow struct {
	config     Config
	httpClient HTTPClient
}

// FlowOption configures the Flow.
type FlowOption func(*Flow)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client HTTPClient) FlowOption {
	return func(f *Flow) { f.httpClient = client }
}

// NewFlow creates a Flow for the given provider configuration.
func NewFlow(config Config, opts ...FlowOption) *Flow {
	f := &Flow{config: config, httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// GenerateAuthURL builds the provider authorization URL and a random state
// value for CSRF protection. access_type=offline and prompt=consent ask
// Google to issue a refresh token so later runs work without a browser.
func (f *Flow) GenerateAuthURL() (authURL, state string) {
	state = randomState()

	params := url.Values{}
	params.Set("client_id", f.config.ClientID)
	params.Set("redirect_uri", f.config.RedirectURL)
	params.Set("response_type", "code")
	params.Set("scope", strings.Join(f.config.Scopes, " "))
	params.Set("state", state)
	params.Set("access_type", "offline")
	params.Set("prompt", "consent")

	return f.config.AuthURL + "?" + params.Encode(), state
}

// ExchangeCode exchanges an authorization code for a token.
func (f *Flow) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	data := url.Values{}
	data.Set("code", code)
	data.Set("client_id", f.config.ClientID)
	data.Set("client_secret", f.config.ClientSecret)
	data.Set("redirect_uri", f.config.RedirectURL)
	data.Set("grant_type", "authorization_code")

	return f.postTokenRequest(ctx, data)
}

// RefreshAccessToken obtains a fresh access token using a refresh token.
// Google omits the refresh token from refresh responses, so the caller is
// expected to carry the original one forward.
func (f *Flow) RefreshAccessToken(ctx context.Context, refreshToken string) (*Token, error) {
	data := url.Values{}
	data.Set("refresh_token", refreshToken)
	data.Set("client_id", f.config.ClientID)
	data.Set("client_secret", f.config.ClientSecret)
	data.Set("grant_type", "refresh_token")

	return f.postTokenRequest(ctx, data)
}

func (f *Flow) postTokenRequest(ctx context.Context, data url.Values) (*Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			return nil, fmt.Errorf("token request failed: %s (%s)", errResp.Error, errResp.ErrorDescription)
		}
		return nil, fmt.Errorf("token request failed: status %d", resp.StatusCode)
	}

	var token Token
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if token.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}

	return &token, nil
}

func randomState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// CallbackServer receives the OAuth redirect on localhost during the
// browser flow.
type CallbackServer struct {
	port int
}

// NewCallbackServer creates a callback server listening on the given port.
func NewCallbackServer(port int) *CallbackServer {
	return &CallbackServer{port: port}
}

// WaitForCallback starts the server and blocks until the provider redirects
// back with an authorization code, the timeout elapses, or ctx is cancelled.
// Callbacks carrying a state value other than expectedState are rejected.
func (s *CallbackServer) WaitForCallback(ctx context.Context, expectedState string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	sendErr := func(err error) {
		select {
		case errChan <- err:
		default:
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if errMsg := r.URL.Query().Get("error"); errMsg != "" {
			http.Error(w, "authorization denied: "+errMsg, http.StatusBadRequest)
			sendErr(fmt.Errorf("authorization denied: %s", errMsg))
			return
		}

		state := r.URL.Query().Get("state")
		if state != expectedState {
			http.Error(w, "invalid state parameter", http.StatusBadRequest)
			sendErr(ErrInvalidState)
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing authorization code", http.StatusBadRequest)
			sendErr(errors.New("callback carried no authorization code"))
			return
		}

		fmt.Fprintln(w, "Authorization received. You can close this window and return to the terminal.")

		select {
		case codeChan <- code:
		default:
		}
	})

	listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", s.port))
	if err != nil {
		return "", fmt.Errorf("failed to start callback server: %w", err)
	}

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() { _ = server.Serve(listener) }()
	defer func() { _ = server.Close() }()

	select {
	case code := <-codeChan:
		return code, nil
	case err := <-errChan:
		return "", err
	case <-ctx.Done():
		return "", fmt.Errorf("timed out waiting for authorization callback: %w", ctx.Err())
	}
}
