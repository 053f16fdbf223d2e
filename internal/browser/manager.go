package browser

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/neboloop/arc-devtools-mcp/internal/defaults"
)

const (
	modeConnect = "connect"
	modeLaunch  = "launch"

	staleCloseTimeout = 2 * time.Second
)

// Manager owns at most one cached browser handle. Connect and Launch hand out
// the cached handle while it reports itself connected, and otherwise acquire
// a new one. Acquisitions are serialized.
type Manager struct {
	mu sync.Mutex

	driver  Driver
	browser Browser

	logger  *slog.Logger
	metrics *Metrics
	goos    string
	home    string
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger.With("component", "browser")
		}
	}
}

// WithMetrics records acquisitions into metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithHomeDir overrides the user's home directory.
func WithHomeDir(home string) Option {
	return func(m *Manager) {
		m.home = home
	}
}

// WithPlatform overrides runtime.GOOS when picking the default executable.
func WithPlatform(goos string) Option {
	return func(m *Manager) {
		m.goos = goos
	}
}

// NewManager creates a manager that acquires browsers through driver.
func NewManager(driver Driver, opts ...Option) *Manager {
	m := &Manager{
		driver: driver,
		logger: defaultLogger(),
		goos:   runtime.GOOS,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Connect attaches to a running browser, or returns the cached handle if it
// is still connected.
func (m *Manager) Connect(ctx context.Context, opts ConnectOptions) (Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b := m.liveLocked(); b != nil {
		m.metrics.recordReuse(modeConnect)
		m.logger.Debug("reusing cached browser", "mode", modeConnect)
		return b, nil
	}

	log := acquisitionLogger(m.logger, modeConnect, m.driver.Name())
	log.Info("connecting to browser", "url", redactURL(opts.BrowserURL))
	start := time.Now()

	b, err := m.driver.Connect(ctx, ConnectParams{
		URL:               opts.BrowserURL,
		Filter:            NewTargetFilter(opts.Devtools),
		DevtoolsAsPage:    opts.Devtools,
		NoDefaultViewport: true,
	})
	if err != nil {
		m.metrics.recordAcquire(modeConnect, outcomeError, time.Since(start))
		log.Warn("connect failed", "error", err)
		return nil, &ConnectionError{URL: opts.BrowserURL, Err: err}
	}

	m.storeLocked(b)
	m.metrics.recordAcquire(modeConnect, outcomeConnected, time.Since(start))
	log.Info("browser connected", "elapsed", time.Since(start))
	return b, nil
}

// Launch spawns a browser, or returns the cached handle if it is still
// connected.
func (m *Manager) Launch(ctx context.Context, cfg LaunchConfig) (Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b := m.liveLocked(); b != nil {
		m.metrics.recordReuse(modeLaunch)
		m.logger.Debug("reusing cached browser", "mode", modeLaunch)
		return b, nil
	}

	log := acquisitionLogger(m.logger, modeLaunch, m.driver.Name())
	start := time.Now()

	execPath, err := m.executablePath(cfg)
	if err != nil {
		m.metrics.recordAcquire(modeLaunch, outcomeError, time.Since(start))
		return nil, err
	}

	userDataDir, err := m.ResolveUserDataDir(cfg)
	if err != nil {
		m.metrics.recordAcquire(modeLaunch, outcomeError, time.Since(start))
		return nil, err
	}
	if userDataDir != "" && cfg.UserDataDir == "" {
		if err := os.MkdirAll(userDataDir, 0755); err != nil {
			m.metrics.recordAcquire(modeLaunch, outcomeError, time.Since(start))
			return nil, fmt.Errorf("failed to create user data dir: %w", err)
		}
	}

	args := BuildArgs(cfg)
	log.Info("launching browser",
		"executable", execPath,
		"user_data_dir", userDataDir,
		"headless", cfg.Headless,
		"args", redactArgs(args),
	)

	b, err := m.driver.Launch(ctx, LaunchParams{
		ExecutablePath:      execPath,
		UserDataDir:         userDataDir,
		Args:                args,
		Headless:            cfg.Headless,
		AcceptInsecureCerts: cfg.AcceptInsecureCerts,
		Pipe:                true,
		NoDefaultViewport:   true,
		Filter:              NewTargetFilter(cfg.Devtools),
		DevtoolsAsPage:      cfg.Devtools,
	})
	if err != nil {
		err = translateLaunchError(err, userDataDir)
		outcome := outcomeError
		if IsConflictError(err) {
			outcome = outcomeConflict
		}
		m.metrics.recordAcquire(modeLaunch, outcome, time.Since(start))
		log.Warn("launch failed", "error", err)
		return nil, err
	}
	if p := b.Process(); p != nil {
		log = log.With("pid", p.Pid)
	}

	// Output produced before this point is lost.
	if cfg.LogSink != nil {
		if err := b.PipeOutput(cfg.LogSink); err != nil {
			log.Warn("browser output not piped to log", "error", err)
		}
	}

	if cfg.Viewport != nil {
		if err := resizeFirstPage(ctx, b, *cfg.Viewport, log); err != nil {
			m.closeQuietly(b)
			m.metrics.recordAcquire(modeLaunch, outcomeError, time.Since(start))
			log.Warn("initial viewport failed", "error", err)
			return nil, fmt.Errorf("failed to set initial viewport %s: %w", cfg.Viewport, err)
		}
	}

	m.storeLocked(b)
	m.metrics.recordAcquire(modeLaunch, outcomeLaunched, time.Since(start))
	log.Info("browser launched", "elapsed", time.Since(start))
	return b, nil
}

// Browser returns the cached handle, which may be nil or disconnected.
func (m *Manager) Browser() Browser {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.browser
}

// Close shuts down the cached browser and empties the cache.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser == nil {
		return nil
	}

	err := m.browser.Close(ctx)
	m.browser = nil
	m.metrics.recordReleased()
	if err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}

// ResolveUserDataDir returns the profile directory a launch with cfg would
// use. It is empty for isolated launches. Nothing is created on disk.
func (m *Manager) ResolveUserDataDir(cfg LaunchConfig) (string, error) {
	if cfg.UserDataDir != "" {
		return cfg.UserDataDir, nil
	}
	if cfg.Isolated {
		return "", nil
	}

	home, err := m.homeDir()
	if err != nil {
		return "", err
	}
	return ProfileDir(defaults.CacheDirFor(home), cfg.Channel), nil
}

func (m *Manager) executablePath(cfg LaunchConfig) (string, error) {
	if cfg.ExecutablePath != "" {
		return cfg.ExecutablePath, nil
	}

	home, err := m.homeDir()
	if err != nil {
		return "", err
	}
	return DefaultExecutablePath(m.goos, home)
}

func (m *Manager) homeDir() (string, error) {
	if m.home != "" {
		return m.home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return home, nil
}

// liveLocked returns the cached handle if it is still connected.
func (m *Manager) liveLocked() Browser {
	if m.browser != nil && m.browser.IsConnected() {
		return m.browser
	}
	return nil
}

// storeLocked caches b and releases a stale handle it replaces.
func (m *Manager) storeLocked(b Browser) {
	stale := m.browser
	m.browser = b
	if stale != nil && stale != b {
		m.closeQuietly(stale)
	}
}

func (m *Manager) closeQuietly(b Browser) {
	ctx, cancel := context.WithTimeout(context.Background(), staleCloseTimeout)
	defer cancel()
	if err := b.Close(ctx); err != nil {
		m.logger.Debug("closing browser handle", "error", err)
	}
}

// resizeFirstPage sizes the first visible page. A browser without visible
// pages is left as it is.
func resizeFirstPage(ctx context.Context, b Browser, vp Viewport, log *slog.Logger) error {
	pages, err := b.Pages(ctx)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		log.Debug("no visible page to resize", "viewport", vp.String())
		return nil
	}
	return pages[0].SetContentSize(ctx, vp.Width, vp.Height)
}
