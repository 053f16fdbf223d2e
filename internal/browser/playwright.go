package browser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightDriver launches the browser through the Playwright driver, which
// talks to it over a pipe instead of a debugging port.
type PlaywrightDriver struct {
	logger *slog.Logger

	once sync.Once
	pw   *playwright.Playwright
	err  error
}

// NewPlaywrightDriver creates a Playwright-backed driver. The Playwright
// runtime is started on first use.
func NewPlaywrightDriver(logger *slog.Logger) *PlaywrightDriver {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaywrightDriver{logger: logger.With("component", "playwright")}
}

func (d *PlaywrightDriver) Name() string {
	return DriverPlaywright
}

// start returns the shared Playwright instance. Browsers are never
// downloaded; the configured executable is used.
func (d *PlaywrightDriver) start() (*playwright.Playwright, error) {
	d.once.Do(func() {
		opts := &playwright.RunOptions{
			SkipInstallBrowsers: true,
			Verbose:             false,
			Stdout:              io.Discard,
			Stderr:              io.Discard,
		}
		if err := playwright.Install(opts); err != nil {
			d.err = fmt.Errorf("failed to install playwright driver: %w", err)
			return
		}

		pw, err := playwright.Run(opts)
		if err != nil {
			d.err = fmt.Errorf("failed to start playwright: %w", err)
			return
		}
		d.pw = pw
	})

	return d.pw, d.err
}

// Stop shuts down the Playwright runtime.
func (d *PlaywrightDriver) Stop() error {
	if d.pw == nil {
		return nil
	}
	return d.pw.Stop()
}

func (d *PlaywrightDriver) Connect(ctx context.Context, p ConnectParams) (Browser, error) {
	pw, err := d.start()
	if err != nil {
		return nil, err
	}

	b, err := await(ctx, func() (playwright.Browser, error) {
		return pw.Chromium.ConnectOverCDP(p.URL)
	}, func(b playwright.Browser) {
		_ = b.Close()
	})
	if err != nil {
		return nil, err
	}

	d.logDevtoolsUnsupported(p.DevtoolsAsPage)
	return &playwrightBrowser{browser: b, filter: p.Filter}, nil
}

func (d *PlaywrightDriver) Launch(ctx context.Context, p LaunchParams) (Browser, error) {
	pw, err := d.start()
	if err != nil {
		return nil, err
	}

	userDataDir := p.UserDataDir
	tempDir := ""
	if userDataDir == "" {
		tempDir, err = os.MkdirTemp("", "arc-devtools-mcp-profile-")
		if err != nil {
			return nil, fmt.Errorf("failed to create temporary profile: %w", err)
		}
		userDataDir = tempDir
	}

	opts := playwright.BrowserTypeLaunchPersistentContextOptions{
		ExecutablePath:    playwright.String(p.ExecutablePath),
		Args:              p.Args,
		Headless:          playwright.Bool(p.Headless),
		IgnoreHttpsErrors: playwright.Bool(p.AcceptInsecureCerts),
		NoViewport:        playwright.Bool(p.NoDefaultViewport),
	}

	bctx, err := await(ctx, func() (playwright.BrowserContext, error) {
		return pw.Chromium.LaunchPersistentContext(userDataDir, opts)
	}, func(c playwright.BrowserContext) {
		_ = c.Close()
	})
	if err != nil {
		if tempDir != "" {
			_ = os.RemoveAll(tempDir)
		}
		return nil, err
	}

	d.logDevtoolsUnsupported(p.DevtoolsAsPage)
	b := &playwrightBrowser{context: bctx, filter: p.Filter, tempDir: tempDir}
	bctx.OnClose(func(playwright.BrowserContext) {
		b.closed.Store(true)
	})
	return b, nil
}

func (d *PlaywrightDriver) logDevtoolsUnsupported(devtoolsAsPage bool) {
	if devtoolsAsPage {
		d.logger.Debug("devtools targets are not exposed as pages by playwright")
	}
}

// await runs fn and gives up when ctx is done. A result that arrives after
// that is passed to discard.
func await[T any](ctx context.Context, fn func() (T, error), discard func(T)) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v, err}
	}()

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		go func() {
			if r := <-ch; r.err == nil {
				discard(r.v)
			}
		}()
		var zero T
		return zero, ctx.Err()
	}
}

// playwrightBrowser holds either a CDP connection (connect) or a persistent
// context (launch).
type playwrightBrowser struct {
	browser playwright.Browser
	context playwright.BrowserContext
	filter  TargetFilter
	tempDir string

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

func (b *playwrightBrowser) IsConnected() bool {
	if b.closed.Load() {
		return false
	}
	if b.browser != nil {
		return b.browser.IsConnected()
	}
	return true
}

func (b *playwrightBrowser) contexts() []playwright.BrowserContext {
	if b.context != nil {
		return []playwright.BrowserContext{b.context}
	}
	return b.browser.Contexts()
}

func (b *playwrightBrowser) Pages(ctx context.Context) ([]Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var pages []Page
	for _, c := range b.contexts() {
		for _, page := range c.Pages() {
			if b.filter != nil && !b.filter(page.URL()) {
				continue
			}
			pages = append(pages, &playwrightPage{context: c, page: page})
		}
	}
	return pages, nil
}

func (b *playwrightBrowser) PipeOutput(io.Writer) error {
	return ErrOutputUnavailable
}

func (b *playwrightBrowser) Process() *os.Process {
	return nil
}

func (b *playwrightBrowser) Close(ctx context.Context) error {
	b.closeOnce.Do(func() {
		b.closed.Store(true)
		_, b.closeErr = await(ctx, func() (struct{}, error) {
			if b.context != nil {
				return struct{}{}, b.context.Close()
			}
			return struct{}{}, b.browser.Close()
		}, func(struct{}) {})
		if b.tempDir != "" {
			_ = os.RemoveAll(b.tempDir)
		}
	})
	return b.closeErr
}

type playwrightPage struct {
	context playwright.BrowserContext
	page    playwright.Page
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) SetContentSize(ctx context.Context, width, height int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	session, err := p.context.NewCDPSession(p.page)
	if err != nil {
		return fmt.Errorf("failed to open CDP session: %w", err)
	}
	defer session.Detach()

	res, err := session.Send("Browser.getWindowForTarget", nil)
	if err != nil {
		return fmt.Errorf("failed to find window for page: %w", err)
	}
	window, ok := res.(map[string]any)
	if !ok {
		return fmt.Errorf("unexpected Browser.getWindowForTarget result %T", res)
	}
	windowID, ok := window["windowId"].(float64)
	if !ok {
		return fmt.Errorf("no windowId in Browser.getWindowForTarget result")
	}

	_, err = session.Send("Browser.setContentsSize", map[string]any{
		"windowId": int64(windowID),
		"width":    width,
		"height":   height,
	})
	return err
}
