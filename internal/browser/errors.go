package browser

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOutputUnavailable = errors.New("browser process output unavailable")
	ErrNoExecutable      = errors.New("no browser executable configured")
)

// alreadyRunningMarkers are the messages a Chromium build prints when another
// process already owns the profile directory.
var alreadyRunningMarkers = []string{
	"The browser is already running",
	"Opening in existing browser session",
}

// ConfigurationError reports a launch that cannot start because the
// configuration is incomplete for this platform.
type ConfigurationError struct {
	Platform string
	Err      error
}

func (e *ConfigurationError) Error() string {
	if e.Platform != "" {
		return fmt.Sprintf("Unsupported platform: %s. Please specify executablePath manually.", e.Platform)
	}
	if e.Err != nil {
		return fmt.Sprintf("browser configuration error: %v", e.Err)
	}
	return "browser configuration error"
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ConnectionError wraps a failed attempt to attach to a running browser.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to browser at %s: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ConflictError reports that another browser process already holds the
// profile directory.
type ConflictError struct {
	UserDataDir string
	Err         error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("The browser is already running for %s. Use --isolated to run multiple browser instances.", e.UserDataDir)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// IsConflictError returns true if the error reports a profile directory that
// is already in use.
func IsConflictError(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict)
}

// IsConnectionError returns true if the error came from a failed connect.
func IsConnectionError(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}

// IsConfigurationError returns true if the launch could not be configured.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// translateLaunchError turns an "already running" spawn failure into a
// ConflictError when a profile directory was in use. Everything else is
// returned unchanged.
func translateLaunchError(err error, userDataDir string) error {
	if err == nil || userDataDir == "" {
		return err
	}
	msg := err.Error()
	for _, marker := range alreadyRunningMarkers {
		if strings.Contains(msg, marker) {
			return &ConflictError{UserDataDir: userDataDir, Err: err}
		}
	}
	return err
}
