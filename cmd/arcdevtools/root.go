package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/neboloop/arc-devtools-mcp/internal/browser"
	"github.com/neboloop/arc-devtools-mcp/internal/config"
	"github.com/neboloop/arc-devtools-mcp/internal/defaults"
	"github.com/neboloop/arc-devtools-mcp/internal/logging"
)

const (
	acquireTimeout  = 60 * time.Second
	shutdownTimeout = 10 * time.Second
	livenessPoll    = time.Second
)

// loadOptions reads the config file and applies the flags that were set
// explicitly on the command line.
func loadOptions(cmd *cobra.Command) (*config.Options, error) {
	path := cfgFile
	if path == "" {
		p, err := defaults.ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	opts, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	applyFlags(cmd.Flags(), opts)
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func applyFlags(fs *pflag.FlagSet, opts *config.Options) {
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}

	set("browserUrl", func() { opts.BrowserURL = flagValues.BrowserURL })
	set("headless", func() { opts.Headless = flagValues.Headless })
	set("executablePath", func() { opts.ExecutablePath = flagValues.ExecutablePath })
	set("isolated", func() { opts.Isolated = flagValues.Isolated })
	set("channel", func() { opts.Channel = flagValues.Channel })
	set("logFile", func() { opts.LogFile = flagValues.LogFile })
	set("viewport", func() { opts.Viewport = flagValues.Viewport })
	set("proxyServer", func() { opts.ProxyServer = flagValues.ProxyServer })
	set("acceptInsecureCerts", func() { opts.AcceptInsecureCerts = flagValues.AcceptInsecureCerts })
	set("experimentalDevtools", func() { opts.ExperimentalDevtools = flagValues.ExperimentalDevtools })
	set("chromeArg", func() { opts.ChromeArgs = append(opts.ChromeArgs, flagValues.ChromeArgs...) })
	set("driver", func() { opts.Driver = flagValues.Driver })
	set("metrics-addr", func() { opts.MetricsAddr = flagValues.MetricsAddr })
	set("verbose", func() { opts.Debug = verbose })
	set("quiet", func() { opts.Quiet = quiet })
}

// session owns everything a command needs to hold a browser.
type session struct {
	quiet    bool
	out      *logging.Output
	logger   *slog.Logger
	driver   browser.Driver
	manager  *browser.Manager
	registry *prometheus.Registry
}

func newSession(opts *config.Options) (*session, error) {
	out, err := logging.Setup(logging.Options{
		File:  opts.LogFile,
		Debug: opts.Debug,
		JSON:  jsonLogs,
	})
	if err != nil {
		return nil, err
	}
	if opts.Quiet {
		logging.Disable()
	}
	logging.Debugf("using %s driver", opts.Driver)

	driver, err := newDriver(opts.Driver, out.Logger)
	if err != nil {
		out.Close()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	manager := browser.NewManager(driver,
		browser.WithLogger(out.Logger),
		browser.WithMetrics(browser.NewMetrics(registry)),
	)

	return &session{
		quiet:    opts.Quiet,
		out:      out,
		logger:   out.Logger,
		driver:   driver,
		manager:  manager,
		registry: registry,
	}, nil
}

func newDriver(name string, logger *slog.Logger) (browser.Driver, error) {
	switch name {
	case "", browser.DriverCDP:
		return browser.NewCDPDriver(logger.With("driver", browser.DriverCDP)), nil
	case browser.DriverPlaywright:
		return browser.NewPlaywrightDriver(logger.With("driver", browser.DriverPlaywright)), nil
	default:
		return nil, fmt.Errorf("unknown driver %q", name)
	}
}

// acquire connects when a browser URL is configured and launches otherwise.
func (s *session) acquire(ctx context.Context, opts *config.Options) (browser.Browser, error) {
	ctx, cancel := context.WithTimeout(ctx, acquireTimeout)
	defer cancel()

	if opts.Connects() {
		return s.manager.Connect(ctx, opts.ConnectOptions())
	}

	cfg, err := opts.LaunchConfig(s.out.Sink)
	if err != nil {
		return nil, err
	}
	return s.manager.Launch(ctx, cfg)
}

// Close shuts the browser down and releases the driver and log file.
func (s *session) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.manager.Close(ctx); err != nil {
		logging.Warnf("failed to close browser: %v", err)
	}
	if pw, ok := s.driver.(*browser.PlaywrightDriver); ok {
		if err := pw.Stop(); err != nil {
			logging.Warnf("failed to stop playwright: %v", err)
		}
	}
	if s.quiet {
		logging.Enable()
	}
	s.out.Close()
}

// serveMetrics exposes /metrics and /health on addr until Shutdown.
func (s *session) serveMetrics(addr string) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(s.manager, s.registry),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Errorf("metrics server on %s stopped: %v", addr, err)
		}
	}()
	logging.Infof("serving metrics on %s", addr)
	return srv
}

func runRoot(ctx context.Context, cmd *cobra.Command, opts *config.Options) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := newSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	if opts.MetricsAddr != "" {
		srv := s.serveMetrics(opts.MetricsAddr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	b, err := s.acquire(ctx, opts)
	if err != nil {
		return err
	}

	pages, err := b.Pages(ctx)
	if err != nil {
		s.logger.Warn("failed to list pages", "error", err)
	}
	for _, p := range pages {
		s.logger.Info("page", "url", p.URL())
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Browser ready (%d pages). Press Ctrl+C to exit.\n", len(pages))
	return waitForExit(ctx, b)
}

// waitForExit blocks until a signal arrives or the browser goes away.
func waitForExit(ctx context.Context, b browser.Browser) error {
	ticker := time.NewTicker(livenessPoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Infof("shutting down")
			return nil
		case <-ticker.C:
			if !b.IsConnected() {
				return errors.New("browser disconnected")
			}
		}
	}
}
