package cli

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neboloop/arc-devtools-mcp/internal/browser"
	"github.com/neboloop/arc-devtools-mcp/internal/config"
	"github.com/neboloop/arc-devtools-mcp/internal/defaults"
	"github.com/neboloop/arc-devtools-mcp/internal/logging"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// execute runs the root command with args against an empty cache dir.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cache := t.TempDir()
	t.Setenv(defaults.CacheDirEnv, cache)
	cfgFile = ""
	verbose = false
	quiet = false
	jsonLogs = false

	cmd := SetupRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "arc-devtools-mcp "+Version), out)
}

func TestProfileDirCmd(t *testing.T) {
	out, err := execute(t, "profile-dir")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.Getenv(defaults.CacheDirEnv), browser.DefaultProfileName), out)
}

func TestProfileDirChannel(t *testing.T) {
	out, err := execute(t, "profile-dir", "--channel", "beta")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.Getenv(defaults.CacheDirEnv), "arc-profile-beta"), out)
}

func TestProfileDirIsolated(t *testing.T) {
	out, err := execute(t, "profile-dir", "--isolated")
	require.NoError(t, err)
	assert.Equal(t, "(temporary)", out)
}

func TestProfileDirRejectsBrowserURL(t *testing.T) {
	_, err := execute(t, "profile-dir", "--browserUrl", "http://127.0.0.1:9222")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--browserUrl")
}

func TestConfigFileOverriddenByFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("channel: canary\n"), 0644))

	out, err := execute(t, "profile-dir", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "arc-profile-canary", filepath.Base(out))

	out, err = execute(t, "profile-dir", "--config", path, "--channel", "dev")
	require.NoError(t, err)
	assert.Equal(t, "arc-profile-dev", filepath.Base(out))
}

func TestRootValidatesBeforeLaunch(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad viewport", []string{"--viewport", "big"}, "Invalid viewport"},
		{"bad url", []string{"--browserUrl", "nope"}, "Provided browserUrl nope is not valid URL."},
		{"url and channel", []string{"--browserUrl", "http://127.0.0.1:9222", "--channel", "beta"}, "cannot be used together"},
		{"unknown driver", []string{"--driver", "selenium"}, "unknown driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestApplyFlags(t *testing.T) {
	cmd := SetupRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"--headless",
		"--chromeArg", "--lang=de",
		"--chromeArg", "--mute-audio",
		"--metrics-addr", ":9464",
		"-v",
		"-q",
	}))

	opts := &config.Options{
		Channel:    "beta",
		ChromeArgs: []string{"--from-file"},
	}
	applyFlags(cmd.Flags(), opts)

	assert.True(t, opts.Headless)
	assert.True(t, opts.Debug)
	assert.True(t, opts.Quiet)
	assert.Equal(t, "beta", opts.Channel, "unset flags must not override the file")
	assert.Equal(t, []string{"--from-file", "--lang=de", "--mute-audio"}, opts.ChromeArgs)
	assert.Equal(t, ":9464", opts.MetricsAddr)
}

func TestNewDriver(t *testing.T) {
	logger := discardLogger()

	d, err := newDriver("", logger)
	require.NoError(t, err)
	assert.Equal(t, browser.DriverCDP, d.Name())

	d, err = newDriver(browser.DriverPlaywright, logger)
	require.NoError(t, err)
	assert.Equal(t, browser.DriverPlaywright, d.Name())

	_, err = newDriver("selenium", logger)
	assert.Error(t, err)
}

func TestSessionQuiet(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "arc.log")
	s, err := newSession(&config.Options{Driver: browser.DriverCDP, LogFile: path, Quiet: true})
	require.NoError(t, err)

	logging.Infof("hidden while quiet")
	s.Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden while quiet")

	s, err = newSession(&config.Options{Driver: browser.DriverCDP, LogFile: path})
	require.NoError(t, err)
	logging.Infof("visible again")
	s.Close()

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible again")
}
