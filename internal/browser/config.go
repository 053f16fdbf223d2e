package browser

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
)

// Channel selects a release channel of the browser. It only changes which
// profile directory a launch uses.
type Channel string

const (
	ChannelStable Channel = "stable"
	ChannelCanary Channel = "canary"
	ChannelBeta   Channel = "beta"
	ChannelDev    Channel = "dev"
)

// Channels lists the accepted channel names.
var Channels = []Channel{ChannelStable, ChannelCanary, ChannelBeta, ChannelDev}

// ParseChannel validates a channel name. The empty string is the stable channel.
func ParseChannel(s string) (Channel, error) {
	if s == "" {
		return ChannelStable, nil
	}
	ch := Channel(s)
	if !slices.Contains(Channels, ch) {
		return "", fmt.Errorf("unknown channel %q (expected one of stable, canary, beta, dev)", s)
	}
	return ch, nil
}

// Viewport is the initial content area size of the first page.
type Viewport struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

func (v Viewport) String() string {
	return fmt.Sprintf("%dx%d", v.Width, v.Height)
}

// LaunchConfig describes a browser process to spawn.
type LaunchConfig struct {
	// ExecutablePath overrides the platform default executable.
	ExecutablePath string

	// Channel picks the profile directory when UserDataDir is empty.
	Channel Channel

	// UserDataDir overrides the computed profile directory.
	UserDataDir string

	Headless bool

	// Isolated runs against a temporary profile that is removed on exit.
	Isolated bool

	AcceptInsecureCerts bool

	// Args are extra process arguments, passed before the built-in ones.
	Args []string

	// LogSink receives the browser's stdout and stderr after launch.
	LogSink io.Writer

	// Viewport resizes the first page after launch when set.
	Viewport *Viewport

	// Devtools exposes DevTools targets and opens DevTools for new tabs.
	Devtools bool
}

// ConnectOptions describes a running browser to attach to.
type ConnectOptions struct {
	// BrowserURL is the remote debugging endpoint, http(s):// or ws(s)://.
	BrowserURL string

	Devtools bool
}

// ProfileDirName returns the profile directory name for a channel.
func ProfileDirName(ch Channel) string {
	if ch == "" || ch == ChannelStable {
		return DefaultProfileName
	}
	return DefaultProfileName + "-" + string(ch)
}

// ProfileDir returns the persistent profile directory below the cache root.
func ProfileDir(cacheDir string, ch Channel) string {
	return filepath.Join(cacheDir, ProfileDirName(ch))
}

// BuildArgs assembles the process arguments for a launch: the caller's
// arguments first, then the fixed and conditional ones.
func BuildArgs(cfg LaunchConfig) []string {
	args := make([]string, 0, len(cfg.Args)+3)
	args = append(args, cfg.Args...)
	args = append(args, hideCrashRestoreBubbleArg)

	if cfg.Headless {
		args = append(args, headlessScreenInfoArg)
	}

	if cfg.Devtools {
		args = append(args, autoOpenDevtoolsArg)
	}

	return args
}
