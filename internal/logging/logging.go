package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// disabledLevel sits above every level slog emits.
const disabledLevel = slog.LevelError + 100

var (
	level   = new(slog.LevelVar)
	enabled = slog.LevelInfo
)

// Options configures Setup.
type Options struct {
	// File appends logs to this path instead of writing to stderr.
	File string

	// Debug lowers the level to debug.
	Debug bool

	// JSON switches to the JSON handler.
	JSON bool
}

// Output is the configured logging destination.
type Output struct {
	Logger *slog.Logger

	// Sink is the opened log file, or nil when logging to stderr. Browser
	// process output is piped into it.
	Sink io.Writer

	file *os.File
}

// Close closes the log file, if any.
func (o *Output) Close() error {
	if o == nil || o.file == nil {
		return nil
	}
	return o.file.Close()
}

// Setup builds the process logger and installs it as slog's default.
func Setup(opts Options) (*Output, error) {
	out := &Output{}

	var w io.Writer = os.Stderr
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out.file = f
		out.Sink = f
		w = f
	}

	enabled = slog.LevelInfo
	if opts.Debug {
		enabled = slog.LevelDebug
	}
	level.Set(enabled)

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	out.Logger = slog.New(handler).With(slog.String("system", "arc-devtools-mcp"))
	slog.SetDefault(out.Logger)
	return out, nil
}

// Disable turns off all logging until Enable or the next Setup.
func Disable() {
	level.Set(disabledLevel)
}

// Enable turns logging back on
func Enable() {
	level.Set(enabled)
}

// Infof logs a formatted info message
func Infof(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Warnf logs a formatted warning message
func Warnf(format string, v ...any) {
	slog.Warn(fmt.Sprintf(format, v...))
}

// Errorf logs a formatted error message
func Errorf(format string, v ...any) {
	slog.Error(fmt.Sprintf(format, v...))
}

// Debugf logs a formatted debug message
func Debugf(format string, v ...any) {
	slog.Debug(fmt.Sprintf(format, v...))
}
