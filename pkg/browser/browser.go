// Package browser opens URLs in the user's default browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Open opens the given URL in the default browser. The URL is parsed and its
// scheme checked first so nothing shell-sensitive reaches the launcher.
func Open(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %q (only http and https allowed)", parsed.Scheme)
	}

	name, args := launcher(rawURL)
	if name == "" {
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return exec.Command(name, args...).Start() // #nosec G204 -- URL validated above
}

// launcher returns the platform command used to hand a URL to the desktop.
func launcher(url string) (name string, args []string) {
	switch runtime.GOOS {
	case "linux":
		return "xdg-open", []string{url}
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "", nil
	}
}
