package youtube

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrQuotaExceeded marks API failures caused by daily quota exhaustion.
// Callers detect it with errors.Is and report a resume point instead of
// treating the run as failed.
var ErrQuotaExceeded = errors.New("YouTube API quota exceeded")

// apiErrorBody is the error envelope Google wraps around failed calls.
type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// quotaReasons are the error reasons Google uses for quota exhaustion on a
// 403 response.
var quotaReasons = map[string]bool{
	"quotaExceeded":           true,
	"dailyLimitExceeded":      true,
	"rateLimitExceeded":       true,
	"userRateLimitExceeded":   true,
	"servingLimitExceeded":    true,
	"dailyLimitExceededUnreg": true,
}

func (c *Client) handleAPIError(statusCode int, body []byte) error {
	if statusCode == http.StatusTooManyRequests {
		return fmt.Errorf("too many requests: %w", ErrQuotaExceeded)
	}

	var parsed apiErrorBody
	_ = json.Unmarshal(body, &parsed)

	if statusCode == http.StatusForbidden {
		for _, e := range parsed.Error.Errors {
			if quotaReasons[e.Reason] {
				return fmt.Errorf("%s: %w", e.Reason, ErrQuotaExceeded)
			}
		}
		// Some quota errors only mention quota in the message.
		if strings.Contains(strings.ToLower(parsed.Error.Message), "quota") {
			return fmt.Errorf("%s: %w", parsed.Error.Message, ErrQuotaExceeded)
		}
	}

	switch statusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("YouTube API authentication failed - please run 'liketrim auth' to re-authenticate")
	case http.StatusForbidden:
		return fmt.Errorf("YouTube API access denied - check your OAuth permissions")
	case http.StatusNotFound:
		return fmt.Errorf("YouTube API resource not found - it may already have been removed")
	case http.StatusServiceUnavailable:
		return fmt.Errorf("YouTube API temporarily unavailable - please try again in a few minutes")
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusGatewayTimeout:
		return fmt.Errorf("YouTube API server error - please try again later")
	default:
		if parsed.Error.Message != "" {
			return fmt.Errorf("YouTube API error (status %d): %s", statusCode, parsed.Error.Message)
		}
		return fmt.Errorf("YouTube API error (status %d) - please try again", statusCode)
	}
}
