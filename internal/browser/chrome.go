package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// defaultExecutables maps runtime.GOOS to the default Arc install location.
// Platforms missing here need an explicit executable path.
var defaultExecutables = map[string]func(home string) string{
	"darwin": func(string) string {
		return "/Applications/Arc.app/Contents/MacOS/Arc"
	},
	"windows": func(home string) string {
		if home == "" {
			return ""
		}
		return filepath.Join(home, "AppData", "Local", "Arc", "Application", "Arc.exe")
	},
	"linux": func(string) string {
		return "/opt/Arc/arc"
	},
}

// DefaultExecutablePath returns the default Arc executable for a platform.
func DefaultExecutablePath(goos, home string) (string, error) {
	resolve, ok := defaultExecutables[goos]
	if !ok {
		return "", &ConfigurationError{Platform: goos}
	}
	path := resolve(home)
	if path == "" {
		return "", &ConfigurationError{Err: ErrNoExecutable}
	}
	return path, nil
}

// resolveWebSocketURL turns an http(s) remote debugging endpoint into the
// browser websocket URL. ws(s) URLs are returned as-is.
func resolveWebSocketURL(ctx context.Context, browserURL string, timeout time.Duration) (string, error) {
	u, err := url.Parse(browserURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "ws" || u.Scheme == "wss" {
		return browserURL, nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	versionURL := strings.TrimSuffix(browserURL, "/") + "/json/version"
	req, err := http.NewRequestWithContext(ctx, "GET", versionURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, versionURL)
	}

	var version struct {
		WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&version); err != nil {
		return "", err
	}

	if version.WebSocketDebuggerURL == "" {
		return "", fmt.Errorf("no webSocketDebuggerUrl in response")
	}

	return version.WebSocketDebuggerURL, nil
}

// splitFlag splits "--name=value" into its parts. Bare switches map to true.
// ok is false for positional arguments.
func splitFlag(arg string) (name string, value any, ok bool) {
	if !strings.HasPrefix(arg, "--") {
		return "", nil, false
	}
	arg = strings.TrimPrefix(arg, "--")
	if arg == "" {
		return "", nil, false
	}
	if name, val, found := strings.Cut(arg, "="); found {
		return name, val, true
	}
	return arg, true, true
}
