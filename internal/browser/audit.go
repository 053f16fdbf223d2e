package browser

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// sensitiveFlags are launch flags whose values may carry credentials.
var sensitiveFlags = map[string]bool{
	"proxy-server":         true,
	"proxy-pac-url":        true,
	"remote-debugging-url": true,
}

func defaultLogger() *slog.Logger {
	return slog.Default().With("component", "browser")
}

// acquisitionLogger tags every line of one acquisition with a short id.
func acquisitionLogger(base *slog.Logger, mode, driver string) *slog.Logger {
	return base.With(
		"acquisition", truncateID(uuid.NewString()),
		"mode", mode,
		"driver", driver,
	)
}

// redactArgs hides credentials in launch arguments before they are logged.
func redactArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		name, value, ok := splitFlag(arg)
		s, isString := value.(string)
		if !ok || !isString || !sensitiveFlags[name] {
			out[i] = arg
			continue
		}
		out[i] = "--" + name + "=" + redactURL(s)
	}
	return out
}

// redactURL strips userinfo from a URL-ish value.
func redactURL(s string) string {
	u, err := url.Parse(s)
	if err != nil || u.User == nil {
		if strings.Contains(s, "@") {
			return "[redacted]"
		}
		return s
	}
	u.User = url.User("redacted")
	return u.String()
}

func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
