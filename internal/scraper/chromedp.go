package scraper

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"substackscraper/logger"
)

const (
	defaultNavigationTimeout = 30 * time.Second
	defaultPageLoadTimeout   = 60 * time.Second
)

// chromeSession drives a chromium-family browser over the DevTools protocol
type chromeSession struct {
	ctx             context.Context
	cancelTask      context.CancelFunc
	cancelAllocator context.CancelFunc
	navTimeout      time.Duration
	pageLoadTimeout time.Duration
	closeOnce       sync.Once
	log             *logger.Logger
}

// NewChromeSession launches a browser and returns a live session. It is the
// production SessionFactory.
func NewChromeSession(ctx context.Context, opts BrowserOptions) (Session, error) {
	if err := ValidateEngine(opts.Engine); err != nil {
		return nil, err
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if strings.EqualFold(opts.Engine, "edge") {
		path, err := edgeExecPath()
		if err != nil {
			return nil, err
		}
		allocOpts = append(allocOpts, chromedp.ExecPath(path))
	}

	navTimeout := opts.NavigationTimeout
	if navTimeout <= 0 {
		navTimeout = defaultNavigationTimeout
	}
	pageLoadTimeout := opts.PageLoadTimeout
	if pageLoadTimeout <= 0 {
		pageLoadTimeout = defaultPageLoadTimeout
	}

	allocCtx, cancelAllocator := chromedp.NewExecAllocator(ctx, allocOpts...)
	taskCtx, cancelTask := chromedp.NewContext(allocCtx)

	s := &chromeSession{
		ctx:             taskCtx,
		cancelTask:      cancelTask,
		cancelAllocator: cancelAllocator,
		navTimeout:      navTimeout,
		pageLoadTimeout: pageLoadTimeout,
		log:             logger.ForScraper(),
	}

	// Start the browser now so setup failures surface before navigation
	if err := s.run(ctx, navTimeout); err != nil {
		s.Close()
		return nil, fmt.Errorf("browser startup failed: %w", err)
	}

	s.log.Debug().Str("engine", strings.ToLower(opts.Engine)).Bool("headless", opts.Headless).Msg("browser session started")
	return s, nil
}

// run executes chromedp actions against the session, bounded by timeout and
// cancellable through the caller's context.
func (s *chromeSession) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Navigate loads the URL, blocking until the load event or the page-load timeout
func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, s.pageLoadTimeout, chromedp.Navigate(url))
}

// ScrollHeight probes the current document height
func (s *chromeSession) ScrollHeight(ctx context.Context) (int64, error) {
	var height int64
	err := s.run(ctx, s.navTimeout, chromedp.Evaluate(`document.body.scrollHeight`, &height))
	return height, err
}

// ScrollToBottom scrolls the window to the bottom of the document
func (s *chromeSession) ScrollToBottom(ctx context.Context) error {
	return s.run(ctx, s.navTimeout, chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil))
}

// Content returns the fully rendered markup
func (s *chromeSession) Content(ctx context.Context) (string, error) {
	var content string
	err := s.run(ctx, s.navTimeout, chromedp.OuterHTML("html", &content))
	return content, err
}

// Close tears the browser down exactly once
func (s *chromeSession) Close() error {
	s.closeOnce.Do(func() {
		s.cancelTask()
		s.cancelAllocator()
		s.log.Debug().Msg("browser session closed")
	})
	return nil
}

// edgeExecPath locates a Microsoft Edge executable
func edgeExecPath() (string, error) {
	candidates := []string{
		"microsoft-edge",
		"microsoft-edge-stable",
		"msedge",
		"/usr/bin/microsoft-edge",
		"/opt/microsoft/msedge/msedge",
		"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
		`C:\Program Files (x86)\Microsoft\Edge\Application\msedge.exe`,
	}
	for _, c := range candidates {
		if path, err := exec.LookPath(c); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("edge executable not found in PATH or known locations")
}
