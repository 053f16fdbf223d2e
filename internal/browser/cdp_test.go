package browser

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCDPDriverConnectUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	d := NewCDPDriver(slog.New(slog.NewTextHandler(io.Discard, nil)))
	b, err := d.Connect(context.Background(), ConnectParams{URL: url})
	require.Error(t, err)
	assert.Nil(t, b)
}

func TestCDPDriverConnectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewCDPDriver(nil)
	_, err := d.Connect(ctx, ConnectParams{URL: "ws://127.0.0.1:1/devtools/browser/x"})
	require.Error(t, err)
}

func TestCDPDriverLaunchMissingExecutable(t *testing.T) {
	d := NewCDPDriver(slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := d.Launch(context.Background(), LaunchParams{
		ExecutablePath: "/nonexistent/arc",
		Args:           BuildArgs(LaunchConfig{}),
		Filter:         NewTargetFilter(false),
	})
	require.Error(t, err)
	assert.False(t, IsConflictError(err))
}

func TestCDPDriverName(t *testing.T) {
	assert.Equal(t, DriverCDP, NewCDPDriver(nil).Name())
	assert.Equal(t, DriverPlaywright, NewPlaywrightDriver(nil).Name())
}
