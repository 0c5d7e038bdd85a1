// Package youtube provides a client for the YouTube Data API v3.
//
// This package enables liketrim to:
// - Resolve the authenticated user's liked-videos playlist
// - Page through every item of that playlist
// - Fetch video durations in batches
// - Remove items from the playlist (unlike)
package youtube

// PlaylistEntry is one item of the liked-videos playlist. PlaylistItemID is
// the handle used for removal; VideoID identifies the underlying video.
type PlaylistEntry struct {
	VideoID        string `json:"video_id"`
	PlaylistItemID string `json:"playlist_item_id"`
	Title          string `json:"title"`
	Position       int64  `json:"position"`
}
