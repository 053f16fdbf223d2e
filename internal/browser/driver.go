package browser

import (
	"context"
	"io"
	"os"
)

// Driver opens browser connections. The manager owns caching; a driver only
// knows how to reach a browser once.
type Driver interface {
	// Name identifies the driver in logs and metrics.
	Name() string

	// Connect attaches to a running browser.
	Connect(ctx context.Context, p ConnectParams) (Browser, error)

	// Launch spawns a new browser process and attaches to it.
	Launch(ctx context.Context, p LaunchParams) (Browser, error)
}

// ConnectParams are the resolved inputs of a connect.
type ConnectParams struct {
	URL string

	// Filter decides which targets Pages returns.
	Filter TargetFilter

	// DevtoolsAsPage treats DevTools windows as pages.
	DevtoolsAsPage bool

	// NoDefaultViewport leaves page sizes to the browser window.
	NoDefaultViewport bool
}

// LaunchParams are the resolved inputs of a launch.
type LaunchParams struct {
	ExecutablePath string

	// UserDataDir is empty for a temporary profile owned by the driver.
	UserDataDir string

	Args []string

	Headless bool

	AcceptInsecureCerts bool

	// Pipe asks for a pipe transport instead of a debugging port.
	Pipe bool

	NoDefaultViewport bool

	Filter TargetFilter

	DevtoolsAsPage bool
}

// Browser is a live handle to a browser connection.
type Browser interface {
	// IsConnected reports whether the connection is still usable.
	IsConnected() bool

	// Pages lists the page targets visible through the target filter.
	Pages(ctx context.Context) ([]Page, error)

	// PipeOutput starts copying the browser process output into w.
	// It returns ErrOutputUnavailable when the driver does not own the output.
	PipeOutput(w io.Writer) error

	// Process returns the launched process, or nil when attached remotely.
	Process() *os.Process

	// Close shuts down a launched browser or drops a remote connection.
	Close(ctx context.Context) error
}

// Page is a visible page target.
type Page interface {
	URL() string

	// SetContentSize resizes the page's content area.
	SetContentSize(ctx context.Context, width, height int) error
}
