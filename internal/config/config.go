package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/neboloop/arc-devtools-mcp/internal/browser"
)

// ErrInvalidViewport is returned for viewport strings not shaped like 1280x720.
var ErrInvalidViewport = errors.New("Invalid viewport. Expected format is `1280x720`.")

// Options is the user-facing configuration. It is read from config.yaml and
// then overridden by command line flags.
type Options struct {
	BrowserURL     string `yaml:"browser_url"`     // Attach to a running browser instead of launching
	Headless       bool   `yaml:"headless"`        // Launch without a window
	ExecutablePath string `yaml:"executable_path"` // Browser binary (default: platform Arc install)
	Isolated       bool   `yaml:"isolated"`        // Temporary profile, removed on exit
	Channel        string `yaml:"channel"`         // stable, canary, beta or dev
	LogFile        string `yaml:"log_file"`        // Debug log and browser output destination
	Viewport       string `yaml:"viewport"`        // Initial page size, e.g. 1280x720

	ProxyServer         string   `yaml:"proxy_server"`          // Passed as --proxy-server
	AcceptInsecureCerts bool     `yaml:"accept_insecure_certs"` // Ignore TLS certificate errors
	ChromeArgs          []string `yaml:"chrome_args"`           // Extra browser arguments

	ExperimentalDevtools bool `yaml:"experimental_devtools"` // Expose DevTools targets

	Driver      string `yaml:"driver"`       // cdp (websocket) or playwright (pipe)
	MetricsAddr string `yaml:"metrics_addr"` // Serve Prometheus metrics here when set
	Debug       bool   `yaml:"debug"`
	Quiet       bool   `yaml:"quiet"` // Suppress all log output
}

// Default returns the defaults applied before the config file is read.
func Default() *Options {
	return &Options{
		Driver: browser.DriverCDP,
	}
}

// Load reads the config file at path. A missing file yields the defaults.
func Load(path string) (*Options, error) {
	opts := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	opts.expand()
	return opts, nil
}

// expand resolves environment variables and ~/ in path-like values.
func (o *Options) expand() {
	o.BrowserURL = os.ExpandEnv(o.BrowserURL)
	o.ProxyServer = os.ExpandEnv(o.ProxyServer)
	o.ExecutablePath = expandHome(os.ExpandEnv(o.ExecutablePath))
	o.LogFile = expandHome(os.ExpandEnv(o.LogFile))
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// Validate checks the options and applies the stable channel default when
// neither a browser URL, an executable nor a channel was given.
func (o *Options) Validate() error {
	if o.BrowserURL != "" {
		u, err := url.Parse(o.BrowserURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("Provided browserUrl %s is not valid URL.", o.BrowserURL)
		}
		if o.ExecutablePath != "" {
			return errors.New("--browserUrl and --executablePath cannot be used together")
		}
		if o.Channel != "" {
			return errors.New("--browserUrl and --channel cannot be used together")
		}
	}

	if o.ExecutablePath != "" && o.Channel != "" {
		return errors.New("--executablePath and --channel cannot be used together")
	}

	if o.Channel != "" {
		if _, err := browser.ParseChannel(o.Channel); err != nil {
			return err
		}
	}

	if o.Viewport != "" {
		if _, err := ParseViewport(o.Viewport); err != nil {
			return err
		}
	}

	if o.Driver == "" {
		o.Driver = browser.DriverCDP
	}
	if !slices.Contains([]string{browser.DriverCDP, browser.DriverPlaywright}, o.Driver) {
		return fmt.Errorf("unknown driver %q (expected cdp or playwright)", o.Driver)
	}

	if o.BrowserURL == "" && o.ExecutablePath == "" && o.Channel == "" {
		o.Channel = string(browser.ChannelStable)
	}
	return nil
}

// Connects reports whether the options attach to a running browser.
func (o *Options) Connects() bool {
	return o.BrowserURL != ""
}

// ConnectOptions converts the options for Manager.Connect.
func (o *Options) ConnectOptions() browser.ConnectOptions {
	return browser.ConnectOptions{
		BrowserURL: o.BrowserURL,
		Devtools:   o.ExperimentalDevtools,
	}
}

// LaunchConfig converts the options for Manager.Launch. Browser output goes
// to sink when it is not nil.
func (o *Options) LaunchConfig(sink io.Writer) (browser.LaunchConfig, error) {
	channel, err := browser.ParseChannel(o.Channel)
	if err != nil {
		return browser.LaunchConfig{}, err
	}

	var viewport *browser.Viewport
	if o.Viewport != "" {
		viewport, err = ParseViewport(o.Viewport)
		if err != nil {
			return browser.LaunchConfig{}, err
		}
	}

	return browser.LaunchConfig{
		ExecutablePath:      o.ExecutablePath,
		Channel:             channel,
		Headless:            o.Headless,
		Isolated:            o.Isolated,
		AcceptInsecureCerts: o.AcceptInsecureCerts,
		Args:                o.launchArgs(),
		LogSink:             sink,
		Viewport:            viewport,
		Devtools:            o.ExperimentalDevtools,
	}, nil
}

// launchArgs drops empty arguments and appends the proxy flag.
func (o *Options) launchArgs() []string {
	var args []string
	for _, arg := range o.ChromeArgs {
		if arg != "" {
			args = append(args, arg)
		}
	}
	if o.ProxyServer != "" {
		args = append(args, "--proxy-server="+o.ProxyServer)
	}
	return args
}

// ParseViewport parses WIDTHxHEIGHT with positive integer dimensions.
func ParseViewport(s string) (*browser.Viewport, error) {
	w, h, ok := strings.Cut(s, "x")
	if !ok {
		return nil, ErrInvalidViewport
	}
	width, err := strconv.Atoi(w)
	if err != nil || width <= 0 {
		return nil, ErrInvalidViewport
	}
	height, err := strconv.Atoi(h)
	if err != nil || height <= 0 {
		return nil, ErrInvalidViewport
	}
	return &browser.Viewport{Width: width, Height: height}, nil
}
