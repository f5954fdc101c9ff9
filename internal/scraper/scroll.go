package scraper

import (
	"context"

	"substackscraper/helpers"
	"substackscraper/logger"
)

// ScrollState is the scroll driver's state
type ScrollState int

const (
	// StateScrolling means content is still growing
	StateScrolling ScrollState = iota
	// StateConverged means scrolling no longer increases document height
	StateConverged
	// StateExhausted means the attempt ceiling was hit before convergence;
	// the crawl proceeds with whatever content loaded
	StateExhausted
)

// DefaultMaxScrollAttempts bounds the scroll loop
const DefaultMaxScrollAttempts = 50

// ScrollDriver repeatedly triggers content growth on a live session until the
// measured document height stops changing.
type ScrollDriver struct {
	maxAttempts int
	wait        helpers.WaitRange
	sleeper     helpers.Sleeper
	log         *logger.Logger
}

// NewScrollDriver creates a scroll driver. A non-positive maxAttempts falls
// back to the default ceiling; a nil sleeper gets the production sampler.
func NewScrollDriver(maxAttempts int, wait helpers.WaitRange, sleeper helpers.Sleeper) *ScrollDriver {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxScrollAttempts
	}
	if sleeper == nil {
		sleeper = helpers.RandomSleeper{}
	}
	return &ScrollDriver{
		maxAttempts: maxAttempts,
		wait:        wait,
		sleeper:     sleeper,
		log:         logger.ForScraper(),
	}
}

// Run drives the session to convergence or attempt exhaustion. It returns the
// terminal state and the number of scroll actions performed. Measurement and
// scroll failures abort the loop and surface to the caller untouched;
// classifying them is the acquirer's concern.
func (d *ScrollDriver) Run(ctx context.Context, sess Session) (ScrollState, int, error) {
	lastHeight, err := sess.ScrollHeight(ctx)
	if err != nil {
		return StateScrolling, 0, err
	}

	scrolls := 0
	attempts := 0

	for attempts < d.maxAttempts {
		if err := sess.ScrollToBottom(ctx); err != nil {
			return StateScrolling, scrolls, err
		}
		scrolls++

		if err := d.sleeper.Sleep(ctx, d.wait); err != nil {
			return StateScrolling, scrolls, err
		}

		newHeight, err := sess.ScrollHeight(ctx)
		if err != nil {
			return StateScrolling, scrolls, err
		}

		if newHeight == lastHeight {
			d.log.Info().Int("scrolls", attempts).Msg("reached end of page")
			return StateConverged, scrolls, nil
		}

		lastHeight = newHeight
		attempts++
	}

	d.log.Warn().Int("max_attempts", d.maxAttempts).Msg("stopped scrolling before convergence")
	return StateExhausted, scrolls, nil
}
