// Package scraper orchestrates multi-source content acquisition: registry
// lookup, rate limiting, robots policy, and concurrent fan-out with
// partial-failure aggregation.
package scraper

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bharatverse/content-pipeline/internal/model"
	"github.com/bharatverse/content-pipeline/internal/source"
)

// ErrSourceNotFound is returned by Scrape for names absent from the
// registry. Detect it with errors.Is; the wrapped message lists the
// registered names.
var ErrSourceNotFound = eris.New("source not found")

const defaultUserAgent = "content-pipeline/1.0 (+https://github.com/bharatverse)"

// ScrapeOptions control a scrape invocation.
type ScrapeOptions struct {
	// MaxPages caps pages per source; zero means 1.
	MaxPages int
	// RespectRobots drops extracted items whose source URL is disallowed by
	// the target host's robots.txt for the scraper's user agent.
	RespectRobots bool
	// FailFast makes ScrapeAll propagate the first source error and abandon
	// the remaining sources instead of aggregating partial results.
	FailFast bool
	// Sources restricts ScrapeAll to these names; nil means all registered.
	Sources []string
}

// WebScraper coordinates content acquisition across registered sources.
// All sources share one rate limiter: requests are spaced on a single
// global clock rather than per-domain.
type WebScraper struct {
	registry  *source.Registry
	limiter   *RateLimiter
	robots    *robotsCache
	userAgent string
}

// Option configures a WebScraper.
type Option func(*WebScraper)

// WithUserAgent sets the user agent used for robots.txt checks.
func WithUserAgent(ua string) Option {
	return func(w *WebScraper) {
		w.userAgent = ua
	}
}

// WithRobotsHTTPClient sets the HTTP client used to fetch robots.txt.
func WithRobotsHTTPClient(hc *http.Client) Option {
	return func(w *WebScraper) {
		w.robots = newRobotsCache(hc)
	}
}

// New creates a WebScraper over the given registry.
func New(registry *source.Registry, requestsPerSecond float64, opts ...Option) (*WebScraper, error) {
	limiter, err := NewRateLimiter(requestsPerSecond)
	if err != nil {
		return nil, eris.Wrap(err, "scraper: new")
	}
	w := &WebScraper{
		registry:  registry,
		limiter:   limiter,
		robots:    newRobotsCache(nil),
		userAgent: defaultUserAgent,
	}
	for _, o := range opts {
		o(w)
	}
	return w, nil
}

// ListSources returns all registered source names in registration order.
func (w *WebScraper) ListSources() []string {
	return w.registry.List()
}

// CheckRobotsTxt reports whether userAgent may fetch rawURL under the
// target host's robots.txt. The parsed policy is cached per host; fetch or
// parse failures default to allow. An empty userAgent means "*".
func (w *WebScraper) CheckRobotsTxt(ctx context.Context, rawURL, userAgent string) bool {
	if userAgent == "" {
		userAgent = "*"
	}
	return w.robots.allowed(ctx, rawURL, userAgent)
}

// Scrape extracts content for a topic from a single named source. The rate
// limiter gates every call exactly once before extraction; extraction
// errors propagate unchanged so the fan-out layer decides how to handle
// them.
func (w *WebScraper) Scrape(ctx context.Context, sourceName, topic string, opts ScrapeOptions) ([]model.ScrapedContent, error) {
	src, ok := w.registry.Get(sourceName)
	if !ok {
		return nil, eris.Wrapf(ErrSourceNotFound,
			"source %q (available sources: %s)",
			sourceName, strings.Join(w.registry.List(), ", "),
		)
	}

	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}

	if err := w.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "scraper: rate limit wait")
	}

	zap.L().Info("scraping topic",
		zap.String("source", sourceName),
		zap.String("topic", topic),
		zap.Int("max_pages", maxPages),
	)

	contents, err := src.Extract(ctx, topic, maxPages)
	if err != nil {
		zap.L().Error("scrape failed",
			zap.String("source", sourceName),
			zap.String("topic", topic),
			zap.Error(err),
		)
		return nil, err
	}

	if opts.RespectRobots {
		contents = w.dropDisallowed(ctx, contents)
	}

	totalChars := 0
	for _, c := range contents {
		totalChars += len(c.RawText)
	}
	zap.L().Info("scrape complete",
		zap.String("source", sourceName),
		zap.Int("pages", len(contents)),
		zap.Int("total_chars", totalChars),
	)
	return contents, nil
}

// ScrapeAll extracts content for a topic from multiple sources
// concurrently. With FailFast the first source error propagates and the
// remaining sources are abandoned; otherwise failing sources are logged and
// excluded, and the result concatenates every successful source's list in
// source-name order.
func (w *WebScraper) ScrapeAll(ctx context.Context, topic string, opts ScrapeOptions) ([]model.ScrapedContent, error) {
	names := opts.Sources
	if len(names) == 0 {
		names = w.registry.List()
	}

	zap.L().Info("scraping all sources",
		zap.String("topic", topic),
		zap.Strings("sources", names),
		zap.Bool("fail_fast", opts.FailFast),
	)

	perSource := ScrapeOptions{
		MaxPages:      opts.MaxPages,
		RespectRobots: opts.RespectRobots,
	}

	if opts.FailFast {
		return w.scrapeAllFailFast(ctx, names, topic, perSource)
	}

	// Best effort: every source runs to completion independently; indexed
	// slots keep the concatenation in source-name order.
	slots := make([][]model.ScrapedContent, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		i, name := i, name
		wg.Add(1)
		go func() {
			defer wg.Done()
			contents, err := w.Scrape(ctx, name, topic, perSource)
			if err != nil {
				zap.L().Error("source failed, excluding from results",
					zap.String("source", name),
					zap.String("topic", topic),
					zap.Error(err),
				)
				return
			}
			slots[i] = contents
		}()
	}
	wg.Wait()

	return w.flatten(names, slots), nil
}

func (w *WebScraper) scrapeAllFailFast(ctx context.Context, names []string, topic string, perSource ScrapeOptions) ([]model.ScrapedContent, error) {
	slots := make([][]model.ScrapedContent, len(names))
	g, gCtx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			contents, err := w.Scrape(gCtx, name, topic, perSource)
			if err != nil {
				return err
			}
			slots[i] = contents
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return w.flatten(names, slots), nil
}

func (w *WebScraper) flatten(names []string, slots [][]model.ScrapedContent) []model.ScrapedContent {
	var all []model.ScrapedContent
	for _, contents := range slots {
		all = append(all, contents...)
	}
	zap.L().Info("aggregation complete",
		zap.Int("pages", len(all)),
		zap.Int("sources", len(names)),
	)
	return all
}

// SearchAndScrape is the primary entry point: search the topic across the
// requested sources (all registered when unset) and aggregate every
// successful source's content. Source failures are logged and excluded;
// the caller always gets a best-effort list.
func (w *WebScraper) SearchAndScrape(ctx context.Context, topic string, opts ScrapeOptions) []model.ScrapedContent {
	opts.FailFast = false
	contents, _ := w.ScrapeAll(ctx, topic, opts)
	return contents
}

// dropDisallowed filters out content whose source URL is disallowed by
// robots.txt for the scraper's user agent.
func (w *WebScraper) dropDisallowed(ctx context.Context, contents []model.ScrapedContent) []model.ScrapedContent {
	kept := make([]model.ScrapedContent, 0, len(contents))
	for _, c := range contents {
		if !w.robots.allowed(ctx, c.SourceURL, w.userAgent) {
			zap.L().Warn("dropping robots-disallowed url",
				zap.String("url", c.SourceURL),
				zap.String("user_agent", w.userAgent),
			)
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
