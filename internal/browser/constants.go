// Package browser acquires a Chromium-based browser (Arc by default) for
// automation, either by attaching to a running remote-debugging endpoint or
// by launching a new process with a managed profile directory.
package browser

// Target URLs
const (
	// NewTabURL is the one internal page that stays visible to automation.
	NewTabURL = "chrome://newtab/"

	// DevtoolsURLPrefix marks DevTools frontend targets.
	DevtoolsURLPrefix = "devtools://"
)

// Profile directory naming
const (
	// DefaultProfileName is the profile directory used for the stable channel.
	DefaultProfileName = "arc-profile"
)

// Launch arguments appended after the caller's own.
const (
	hideCrashRestoreBubbleArg = "--hide-crash-restore-bubble"
	headlessScreenInfoArg     = "--screen-info={3840x2160}"
	autoOpenDevtoolsArg       = "--auto-open-devtools-for-tabs"
)

// Driver names
const (
	// DriverCDP talks to the browser over a websocket with chromedp.
	DriverCDP = "cdp"

	// DriverPlaywright launches over a pipe through the Playwright driver.
	DriverPlaywright = "playwright"
)
