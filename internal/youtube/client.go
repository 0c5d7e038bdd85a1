package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/gauthierbraillon/liketrim/internal/isoduration"
	"github.com/gauthierbraillon/liketrim/pkg/oauth"
)

const defaultBaseURL = "https://www.googleapis.com"

// pageSize is the maximum maxResults the API accepts; using it keeps the
// quota cost of a full pass as low as possible.
const pageSize = 50

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithLogger sets the logger used for request-level diagnostics.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// WithRateLimit replaces the default client-side pacing limiter.
func WithRateLimit(limiter *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// Client is a YouTube Data API client scoped to liked-videos maintenance.
type Client struct {
	token      *oauth.Token
	baseURL    string
	httpClient HTTPClient
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// NewClient creates a new YouTube API client with the given OAuth token.
func NewClient(token *oauth.Token, opts ...ClientOption) *Client {
	c := &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
		log:        zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// LikedPlaylistID resolves the ID of the authenticated user's liked-videos
// playlist from the channel's related playlists.
func (c *Client) LikedPlaylistID(ctx context.Context) (string, error) {
	u := fmt.Sprintf("%s/youtube/v3/channels?part=contentDetails&mine=true", c.baseURL)

	body, err := c.doRequest(ctx, http.MethodGet, u)
	if err != nil {
		return "", err
	}

	var response channelsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse channels response: %w", err)
	}

	if len(response.Items) == 0 {
		return "", fmt.Errorf("no channel found for the authenticated user")
	}

	likesID := response.Items[0].ContentDetails.RelatedPlaylists.Likes
	if likesID == "" {
		return "", fmt.Errorf("channel has no liked-videos playlist")
	}

	c.log.Debug().Str("playlist", likesID).Msg("Resolved liked-videos playlist")
	return likesID, nil
}

// LikedVideos pages through the liked-videos playlist and returns its entries
// in playlist order. When the quota runs out mid-pagination the entries
// fetched so far are returned together with the quota error, so a partial
// pass can still be acted on.
func (c *Client) LikedVideos(ctx context.Context, playlistID string) ([]PlaylistEntry, error) {
	entries := make([]PlaylistEntry, 0, pageSize)
	pageToken := ""

	for {
		u := fmt.Sprintf("%s/youtube/v3/playlistItems?part=snippet%%2CcontentDetails&playlistId=%s&maxResults=%d",
			c.baseURL, url.QueryEscape(playlistID), pageSize)
		if pageToken != "" {
			u += "&pageToken=" + url.QueryEscape(pageToken)
		}

		body, err := c.doRequest(ctx, http.MethodGet, u)
		if err != nil {
			return entries, err
		}

		var response playlistItemsResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return entries, fmt.Errorf("failed to parse playlist items response: %w", err)
		}

		for _, item := range response.Items {
			videoID := item.ContentDetails.VideoID
			if videoID == "" {
				videoID = item.Snippet.ResourceID.VideoID
			}
			entries = append(entries, PlaylistEntry{
				VideoID:        videoID,
				PlaylistItemID: item.ID,
				Title:          item.Snippet.Title,
				Position:       item.Snippet.Position,
			})
		}

		c.log.Debug().Int("count", len(entries)).Msg("Retrieved liked videos so far")

		if response.NextPageToken == "" {
			return entries, nil
		}
		pageToken = response.NextPageToken
	}
}

// VideoDurations fetches contentDetails for the given video IDs in batches
// and returns a map of video ID to parsed duration. Videos with durations
// the parser rejects (live streams report "P0D") are left out of the map.
// On quota exhaustion the partial map is returned with the quota error.
func (c *Client) VideoDurations(ctx context.Context, ids []string) (map[string]time.Duration, error) {
	durations := make(map[string]time.Duration, len(ids))

	for start := 0; start < len(ids); start += pageSize {
		end := start + pageSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		u := fmt.Sprintf("%s/youtube/v3/videos?part=contentDetails&id=%s",
			c.baseURL, url.QueryEscape(strings.Join(batch, ",")))

		body, err := c.doRequest(ctx, http.MethodGet, u)
		if err != nil {
			return durations, err
		}

		var response videosResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return durations, fmt.Errorf("failed to parse videos response: %w", err)
		}

		for _, item := range response.Items {
			d, err := isoduration.Parse(item.ContentDetails.Duration)
			if err != nil {
				c.log.Debug().Str("video", item.ID).Str("duration", item.ContentDetails.Duration).
					Msg("Skipping unparseable duration")
				continue
			}
			durations[item.ID] = d
		}

		c.log.Debug().Int("processed", len(durations)).Int("total", len(ids)).Msg("Fetched video durations")
	}

	return durations, nil
}

// RemovePlaylistItem deletes one item from the liked-videos playlist, which
// removes the like. The API answers 204 on success.
func (c *Client) RemovePlaylistItem(ctx context.Context, playlistItemID string) error {
	u := fmt.Sprintf("%s/youtube/v3/playlistItems?id=%s", c.baseURL, url.QueryEscape(playlistItemID))

	_, err := c.doRequest(ctx, http.MethodDelete, u)
	if err != nil {
		return err
	}

	c.log.Debug().Str("item", playlistItemID).Msg("Removed playlist item")
	return nil
}

func (c *Client) doRequest(ctx context.Context, method, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token.AccessToken))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return nil, c.handleAPIError(resp.StatusCode, body)
	}

	return body, nil
}

// API response types (private - implementation detail)

type channelsResponse struct {
	Items []struct {
		ContentDetails struct {
			RelatedPlaylists struct {
				Likes string `json:"likes"`
			} `json:"relatedPlaylists"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title      string `json:"title"`
			Position   int64  `json:"position"`
			ResourceID struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
		ContentDetails struct {
			VideoID string `json:"videoId"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}
