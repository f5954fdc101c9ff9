package scraper

import (
	"context"
	"strings"
	"time"

	apperrors "substackscraper/pkg/errors"
)

// BrowserOptions configures one browser session
type BrowserOptions struct {
	Engine            string
	Headless          bool
	UserAgent         string
	NavigationTimeout time.Duration
	PageLoadTimeout   time.Duration
}

// Session is one live browser automation handle. It is exclusively owned by
// the acquisition attempt that created it and is never reused across retries.
type Session interface {
	// Navigate loads the target URL and blocks until the load event or the
	// page-load timeout.
	Navigate(ctx context.Context, url string) error

	// ScrollHeight probes the current document height.
	ScrollHeight(ctx context.Context) (int64, error)

	// ScrollToBottom scrolls the window to the bottom of the document.
	ScrollToBottom(ctx context.Context) error

	// Content returns the fully rendered markup.
	Content(ctx context.Context) (string, error)

	// Close releases the handle. Closing twice is a no-op.
	Close() error
}

// SessionFactory creates a fresh session. The acquirer calls it once per
// attempt so a handle corrupted by a timeout is never reused.
type SessionFactory func(ctx context.Context, opts BrowserOptions) (Session, error)

// ValidateEngine checks the engine selection before any handle is created.
// chrome and edge speak the DevTools protocol this stack drives; firefox is a
// recognized name without a DevTools endpoint here, so it is refused the same
// way as an unknown engine.
func ValidateEngine(engine string) error {
	switch strings.ToLower(engine) {
	case "chrome", "chromium", "edge":
		return nil
	default:
		return apperrors.NewUnsupportedEngine(engine)
	}
}
