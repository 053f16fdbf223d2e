package browser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	cdpbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
)

const versionLookupTimeout = 10 * time.Second

// CDPDriver reaches the browser over a websocket debugging connection.
// It owns the launched process and can forward its output.
type CDPDriver struct {
	logger *slog.Logger
}

// NewCDPDriver creates a chromedp-backed driver.
func NewCDPDriver(logger *slog.Logger) *CDPDriver {
	if logger == nil {
		logger = slog.Default()
	}
	return &CDPDriver{logger: logger.With("component", "cdp")}
}

func (d *CDPDriver) Name() string {
	return DriverCDP
}

// Connect dials the browser's websocket endpoint, resolving http(s) URLs
// through /json/version first.
func (d *CDPDriver) Connect(ctx context.Context, p ConnectParams) (Browser, error) {
	wsURL, err := resolveWebSocketURL(ctx, p.URL, versionLookupTimeout)
	if err != nil {
		return nil, err
	}

	// The connection outlives ctx; ctx only bounds the dial.
	connCtx, cancel := context.WithCancel(context.Background())
	stop := context.AfterFunc(ctx, cancel)

	b, err := chromedp.NewBrowser(connCtx, wsURL, d.browserOptions()...)
	if !stop() {
		cancel()
		if err == nil {
			err = ctx.Err()
		}
	}
	if err != nil {
		cancel()
		return nil, err
	}

	return &cdpBrowser{
		browser:        b,
		filter:         p.Filter,
		devtoolsAsPage: p.DevtoolsAsPage,
		closeFn: func(context.Context) error {
			cancel()
			return nil
		},
	}, nil
}

// Launch starts the executable with a debugging port and attaches to its
// first page. A pipe transport is not available here; the websocket is used.
func (d *CDPDriver) Launch(ctx context.Context, p LaunchParams) (Browser, error) {
	if p.Pipe {
		d.logger.Debug("pipe transport not supported, using websocket")
	}

	tap := &outputTap{}
	opts := []chromedp.ExecAllocatorOption{
		chromedp.ExecPath(p.ExecutablePath),
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.CombinedOutput(tap),
		chromedp.ModifyCmdFunc(setChromeProcessGroup),
	}
	if p.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(p.UserDataDir))
	}
	if p.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if p.AcceptInsecureCerts {
		opts = append(opts, chromedp.IgnoreCertErrors)
	}
	for _, arg := range p.Args {
		name, value, ok := splitFlag(arg)
		if !ok {
			d.logger.Debug("dropping positional launch argument", "arg", arg)
			continue
		}
		opts = append(opts, chromedp.Flag(name, value))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx,
		chromedp.WithBrowserOption(d.browserOptions()...),
	)

	stop := context.AfterFunc(ctx, allocCancel)
	err := chromedp.Run(tabCtx)
	if !stop() && err == nil {
		err = ctx.Err()
	}
	if err != nil {
		allocCancel()
		tabCancel()
		return nil, err
	}

	c := chromedp.FromContext(tabCtx)
	b := &cdpBrowser{
		browser:        c.Browser,
		filter:         p.Filter,
		devtoolsAsPage: p.DevtoolsAsPage,
		tap:            tap,
		process:        c.Browser.Process(),
	}
	b.closeFn = func(ctx context.Context) error {
		defer tabCancel()
		defer allocCancel()
		defer tap.Detach()

		done := make(chan error, 1)
		go func() {
			done <- chromedp.Cancel(tabCtx)
		}()

		select {
		case err := <-done:
			return err
		case <-ctx.Done():
			killChromeProcessGroup(b.process, true)
			return ctx.Err()
		}
	}
	return b, nil
}

func (d *CDPDriver) browserOptions() []chromedp.BrowserOption {
	return []chromedp.BrowserOption{
		chromedp.WithBrowserLogf(func(format string, args ...any) {
			d.logger.Debug(fmt.Sprintf(format, args...))
		}),
		chromedp.WithBrowserErrorf(func(format string, args ...any) {
			d.logger.Debug(fmt.Sprintf(format, args...), "level", "error")
		}),
	}
}

// cdpBrowser is a Browser backed by a chromedp connection.
type cdpBrowser struct {
	browser        *chromedp.Browser
	filter         TargetFilter
	devtoolsAsPage bool
	tap            *outputTap
	process        *os.Process

	closeOnce sync.Once
	closeErr  error
	closeFn   func(ctx context.Context) error
	closed    bool
	mu        sync.Mutex
}

func (b *cdpBrowser) IsConnected() bool {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return false
	}

	select {
	case <-b.browser.LostConnection:
		return false
	default:
		return true
	}
}

func (b *cdpBrowser) Pages(ctx context.Context) ([]Page, error) {
	infos, err := target.GetTargets().Do(cdp.WithExecutor(ctx, b.browser))
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}

	var pages []Page
	for _, info := range infos {
		if !b.isPage(info) {
			continue
		}
		if b.filter != nil && !b.filter(info.URL) {
			continue
		}
		pages = append(pages, &cdpPage{browser: b.browser, info: info})
	}
	return pages, nil
}

func (b *cdpBrowser) isPage(info *target.Info) bool {
	if info.Type == "page" {
		return true
	}
	return b.devtoolsAsPage && strings.HasPrefix(info.URL, DevtoolsURLPrefix)
}

func (b *cdpBrowser) PipeOutput(w io.Writer) error {
	if b.tap == nil {
		return ErrOutputUnavailable
	}
	b.tap.Attach(w)
	return nil
}

func (b *cdpBrowser) Process() *os.Process {
	return b.process
}

func (b *cdpBrowser) Close(ctx context.Context) error {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		b.mu.Unlock()
		b.closeErr = b.closeFn(ctx)
	})
	return b.closeErr
}

// cdpPage is a page target seen through the browser connection.
type cdpPage struct {
	browser *chromedp.Browser
	info    *target.Info
}

func (p *cdpPage) URL() string {
	return p.info.URL
}

func (p *cdpPage) SetContentSize(ctx context.Context, width, height int) error {
	exec := cdp.WithExecutor(ctx, p.browser)

	windowID, _, err := cdpbrowser.GetWindowForTarget().WithTargetID(p.info.TargetID).Do(exec)
	if err != nil {
		return fmt.Errorf("failed to find window for target %s: %w", p.info.TargetID, err)
	}

	return cdpbrowser.SetContentsSize(windowID).
		WithWidth(int64(width)).
		WithHeight(int64(height)).
		Do(exec)
}
