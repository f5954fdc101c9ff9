package worker

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"substackscraper/helpers"
	"substackscraper/internal/scraper"
	"substackscraper/logger"
	apperrors "substackscraper/pkg/errors"
	"substackscraper/services/cache"
	"substackscraper/services/checkpoint"
	"substackscraper/services/publisher"
)

// Options wires the optional collaborators around one crawl
type Options struct {
	// Cache guards against re-crawling the same URL inside BlockTime.
	// Nil disables the guard.
	Cache     cache.CacheService
	BlockTime time.Duration

	// Checkpoint persists the result for resume. Nil disables it.
	Checkpoint *checkpoint.Store

	// Publisher receives the final article batch. Nil disables publishing.
	Publisher  publisher.Publisher
	PublishKey string

	// Render drives the page through the browser; when false the page is
	// fetched over plain HTTP and scroll-loaded content stays unreachable.
	Render bool

	SortByDate bool
	Ascending  bool
}

// Worker runs the crawl-and-extract pipeline for one URL
type Worker struct {
	acquirer *scraper.Acquirer
	parser   *scraper.Parser
	opts     Options
	log      *logger.Logger
}

// NewWorker creates a pipeline worker
func NewWorker(acquirer *scraper.Acquirer, parser *scraper.Parser, opts Options) *Worker {
	return &Worker{
		acquirer: acquirer,
		parser:   parser,
		opts:     opts,
		log:      logger.ForWorker(),
	}
}

// Run acquires the page, extracts and orders articles, and feeds the
// collaborators. Checkpoint, cache, and publish failures are logged but never
// discard the in-memory result.
func (w *Worker) Run(ctx context.Context, url string) ([]scraper.Article, error) {
	if w.opts.Cache != nil {
		if _, err := w.opts.Cache.Get(crawlKey(url)); err == nil {
			return nil, apperrors.NewRateLimit(url, w.opts.BlockTime)
		}
	}

	markup, err := w.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	articles, err := w.parser.ParseArticles(strings.NewReader(markup), url)
	if err != nil {
		return nil, apperrors.NewAcquisition("failed to parse rendered markup", err)
	}

	articles = scraper.SortArticles(articles, w.opts.SortByDate, w.opts.Ascending)

	if w.opts.Checkpoint != nil {
		metadata := map[string]interface{}{
			"scrape_time": time.Now().Format(time.RFC3339),
		}
		if err := w.opts.Checkpoint.Save(url, articles, metadata); err != nil {
			w.log.Warn().Err(err).Msg("checkpoint save failed; results kept in memory")
		}
	}

	if w.opts.Cache != nil {
		blockSeconds := []byte(fmt.Sprintf("%d", int(w.opts.BlockTime.Seconds())))
		if err := w.opts.Cache.Set(crawlKey(url), blockSeconds, w.opts.BlockTime); err != nil {
			w.log.Warn().Err(err).Msg("failed to set re-crawl guard")
		}
	}

	w.publish(url, articles)

	return articles, nil
}

// fetch produces the page markup through the configured acquisition path
func (w *Worker) fetch(ctx context.Context, url string) (string, error) {
	if w.opts.Render {
		return w.acquirer.Acquire(ctx, url)
	}

	if !scraper.ValidateURL(url) {
		return "", apperrors.NewInvalidURL(url)
	}
	w.log.Warn().Msg("rendering disabled; scroll-loaded articles will be missing")

	body, err := fetchPlain(url)
	if err != nil {
		return "", apperrors.NewAcquisition("plain fetch failed", err)
	}
	return body, nil
}

// publish sends each article to the publisher, then trims the streams
func (w *Worker) publish(url string, articles []scraper.Article) {
	if w.opts.Publisher == nil || len(articles) == 0 {
		return
	}

	for _, article := range articles {
		data, err := json.Marshal(article)
		if err != nil {
			w.log.Warn().Err(err).Str("url", article.URL).Msg("failed to encode article for publishing")
			continue
		}
		if err := w.opts.Publisher.Publish(w.opts.PublishKey, data); err != nil {
			w.log.Warn().Err(err).Str("url", article.URL).Msg("failed to publish article")
		}
	}

	if err := w.opts.Publisher.TrimStreams(); err != nil {
		w.log.Warn().Err(err).Msg("failed to trim streams")
	}

	w.log.Info().Int("articles", len(articles)).Str("source", url).Msg("published article batch")
}

// fetchPlain fetches the page over plain HTTP with browser-like headers
func fetchPlain(url string) (string, error) {
	r, err := helpers.FetchWithRandomHeaders(url)
	if err != nil {
		return "", err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// crawlKey derives a cache key for the re-crawl guard
func crawlKey(url string) string {
	return fmt.Sprintf("crawl_%x", sha1.Sum([]byte(url)))
}
