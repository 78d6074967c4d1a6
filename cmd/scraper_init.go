package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bharatverse/content-pipeline/internal/fetch"
	"github.com/bharatverse/content-pipeline/internal/scraper"
	"github.com/bharatverse/content-pipeline/internal/source"
	"github.com/bharatverse/content-pipeline/internal/store"
	"github.com/bharatverse/content-pipeline/pkg/archive"
	"github.com/bharatverse/content-pipeline/pkg/firecrawl"
	"github.com/bharatverse/content-pipeline/pkg/jina"
	"github.com/bharatverse/content-pipeline/pkg/wikipedia"
)

// scraperEnv holds the initialized store, source registry, and scraper
// needed by the scrape/sources/serve commands.
type scraperEnv struct {
	Store   store.Store
	Scraper *scraper.WebScraper
}

// Close releases resources held by the environment.
func (se *scraperEnv) Close() {
	if se.Store != nil {
		_ = se.Store.Close()
	}
}

// initScraper sets up the fetch chain, all API clients, the source
// registry, and the scraper. Callers should defer env.Close().
func initScraper(ctx context.Context) (*scraperEnv, error) {
	st, err := store.NewSQLite(cfg.Store.DSN)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	// Build fetch chain: Jina primary, Firecrawl fallback, local HTTP last.
	// API-backed fetchers join only when their key is configured.
	var backends []fetch.Client
	var jinaClient jina.Client

	if cfg.Jina.Key != "" {
		jinaOpts := []jina.Option{jina.WithBaseURL(cfg.Jina.BaseURL)}
		if cfg.Jina.SearchBaseURL != "" {
			jinaOpts = append(jinaOpts, jina.WithSearchBaseURL(cfg.Jina.SearchBaseURL))
		}
		jinaClient = jina.NewClient(cfg.Jina.Key, jinaOpts...)
		backends = append(backends, fetch.NewJinaBackend(jinaClient))
		zap.L().Info("jina fetcher enabled")
	} else {
		zap.L().Debug("CONTENT_JINA_KEY not set, jina fetcher disabled")
	}

	if cfg.Firecrawl.Key != "" {
		firecrawlClient := firecrawl.NewClient(cfg.Firecrawl.Key, firecrawl.WithBaseURL(cfg.Firecrawl.BaseURL))
		backends = append(backends, fetch.NewFirecrawlBackend(firecrawlClient))
		zap.L().Info("firecrawl fetcher enabled")
	} else {
		zap.L().Debug("CONTENT_FIRECRAWL_KEY not set, firecrawl fetcher disabled")
	}

	backends = append(backends, fetch.NewLocalBackend(fetch.LocalOptions{
		UserAgent: cfg.Scraper.UserAgent,
		Timeout:   time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		MinWords:  cfg.Fetch.MinWordCount,
	}))

	chain := fetch.NewChain(backends...)

	wikiClient := wikipedia.NewClient(
		wikipedia.WithBaseURL(cfg.Wikipedia.BaseURL),
		wikipedia.WithUserAgent(cfg.Wikipedia.UserAgent),
	)
	archiveClient := archive.NewClient(archive.WithBaseURL(cfg.Archive.BaseURL))

	registry := source.NewRegistry()
	registry.Register(source.NewWikipediaSource(wikiClient, chain))
	registry.Register(source.NewArchiveOrgSource(archiveClient, chain))
	if jinaClient != nil {
		registry.Register(source.NewWebSource(jinaClient, chain))
	}

	sc, err := scraper.New(registry, cfg.Scraper.RequestsPerSecond,
		scraper.WithUserAgent(cfg.Scraper.UserAgent),
	)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return &scraperEnv{Store: st, Scraper: sc}, nil
}
