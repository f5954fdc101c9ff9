package scraper

import (
	"context"
	"errors"
	"net/url"
	"os"
	"time"

	"substackscraper/helpers"
	"substackscraper/logger"
	apperrors "substackscraper/pkg/errors"
)

// DebugFile is the fixed-name side file raw rendered markup is written to
// when debug mode is on.
const DebugFile = "substack_debug.html"

// Acquisition defaults
const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = 5 * time.Second
)

// attemptOutcome classifies one navigation attempt. Retry decisions consume
// this tag rather than dispatching on error types.
type attemptOutcome int

const (
	outcomeSuccess attemptOutcome = iota
	outcomeTimeout
	outcomeTransport
	outcomeFatal
	outcomeCancelled
)

// AcquirerOptions configures page acquisition
type AcquirerOptions struct {
	Browser           BrowserOptions
	MaxRetries        int
	RetryDelay        time.Duration
	InitialWait       helpers.WaitRange
	ScrollWait        helpers.WaitRange
	MaxScrollAttempts int
	Debug             bool
}

// Acquirer produces final rendered markup for one URL, retrying timed-out and
// transport-failed navigations with a fresh session per attempt.
type Acquirer struct {
	factory SessionFactory
	opts    AcquirerOptions
	sleeper helpers.Sleeper
	scroll  *ScrollDriver
	log     *logger.Logger
}

// NewAcquirer creates an acquirer. A nil factory gets the chromedp session
// factory; a nil sleeper gets the production sampler.
func NewAcquirer(factory SessionFactory, opts AcquirerOptions, sleeper helpers.Sleeper) *Acquirer {
	if factory == nil {
		factory = NewChromeSession
	}
	if sleeper == nil {
		sleeper = helpers.RandomSleeper{}
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	return &Acquirer{
		factory: factory,
		opts:    opts,
		sleeper: sleeper,
		scroll:  NewScrollDriver(opts.MaxScrollAttempts, opts.ScrollWait, sleeper),
		log:     logger.ForScraper(),
	}
}

// ValidateURL checks that a URL carries a scheme and a non-empty host
func ValidateURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// Acquire navigates to the URL, settles, scrolls to convergence, and returns
// the rendered markup. Timeouts and transport failures consume the retry
// budget with a fixed delay and a fresh session each attempt; anything else
// fails immediately.
func (a *Acquirer) Acquire(ctx context.Context, rawURL string) (string, error) {
	if !ValidateURL(rawURL) {
		return "", apperrors.NewInvalidURL(rawURL)
	}

	var (
		lastErr     error
		lastOutcome attemptOutcome
	)

	for attempt := 1; attempt <= a.opts.MaxRetries; attempt++ {
		a.log.Info().
			Str("url", rawURL).
			Int("attempt", attempt).
			Int("max_retries", a.opts.MaxRetries).
			Msg("loading page")

		markup, outcome, err := a.attempt(ctx, rawURL)

		switch outcome {
		case outcomeSuccess:
			a.log.Info().Str("url", rawURL).Msg("page acquired")
			return markup, nil

		case outcomeCancelled:
			return "", apperrors.NewCancelled(err)

		case outcomeFatal:
			var se *apperrors.ScraperError
			if errors.As(err, &se) {
				return "", se
			}
			return "", apperrors.NewAcquisition("page acquisition failed", err)

		case outcomeTimeout, outcomeTransport:
			lastErr, lastOutcome = err, outcome
			a.log.Warn().Err(err).Int("attempt", attempt).Msg("navigation attempt failed")
			if attempt < a.opts.MaxRetries {
				if serr := helpers.SleepContext(ctx, a.opts.RetryDelay); serr != nil {
					return "", apperrors.NewCancelled(serr)
				}
			}
		}
	}

	if lastOutcome == outcomeTimeout {
		return "", apperrors.NewPageLoadTimeout(a.opts.MaxRetries, lastErr)
	}
	return "", apperrors.NewTransport(a.opts.MaxRetries, lastErr)
}

// attempt runs one full acquisition attempt against a fresh session. The
// session is released on every exit path; a timed-out handle is assumed
// corrupted and never survives into the next attempt.
func (a *Acquirer) attempt(ctx context.Context, rawURL string) (string, attemptOutcome, error) {
	sess, err := a.factory(ctx, a.opts.Browser)
	if err != nil {
		return "", outcomeFatal, err
	}
	defer sess.Close()

	if err := sess.Navigate(ctx, rawURL); err != nil {
		return "", a.classify(ctx, err), err
	}

	// Settle before the first scroll to mimic organic load timing
	if err := a.sleeper.Sleep(ctx, a.opts.InitialWait); err != nil {
		return "", outcomeCancelled, err
	}

	if _, _, err := a.scroll.Run(ctx, sess); err != nil {
		return "", a.classify(ctx, err), err
	}

	markup, err := sess.Content(ctx)
	if err != nil {
		return "", a.classify(ctx, err), err
	}

	if a.opts.Debug {
		a.writeDebugFile(markup)
	}

	return markup, outcomeSuccess, nil
}

// classify maps an in-attempt failure onto the outcome variant
func (a *Acquirer) classify(ctx context.Context, err error) attemptOutcome {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return outcomeCancelled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return outcomeTimeout
	}
	return outcomeTransport
}

// writeDebugFile persists raw markup for offline inspection; failure is
// logged, never fatal.
func (a *Acquirer) writeDebugFile(markup string) {
	if err := os.WriteFile(DebugFile, []byte(markup), 0o644); err != nil {
		a.log.Warn().Err(err).Str("file", DebugFile).Msg("failed to save debug markup")
		return
	}
	a.log.Info().Str("file", DebugFile).Msg("saved debug markup")
}
