package source

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bharatverse/content-pipeline/internal/fetch"
	"github.com/bharatverse/content-pipeline/internal/model"
)

// extractor supplies the default Extract implementation shared by all
// sources: search for candidates, fetch every candidate page concurrently,
// drop pages that fail, and build a ScrapedContent per success.
type extractor struct {
	name    string
	fetcher fetch.Client
	search  func(ctx context.Context, topic string, maxResults int) []model.SearchResult
}

// Name implements ContentSource.
func (e *extractor) Name() string { return e.name }

// Extract implements ContentSource.
func (e *extractor) Extract(ctx context.Context, topic string, maxPages int) ([]model.ScrapedContent, error) {
	results := e.search(ctx, topic, maxPages)
	if len(results) == 0 {
		return nil, eris.Wrapf(ErrNoCandidates, "%s: topic %q", e.name, topic)
	}
	if len(results) > maxPages {
		results = results[:maxPages]
	}

	zap.L().Info("extracting pages",
		zap.String("source", e.name),
		zap.String("topic", topic),
		zap.Int("candidates", len(results)),
	)

	// Indexed slots keep the search ranking order regardless of which
	// fetch finishes first.
	slots := make([]*model.ScrapedContent, len(results))
	var wg sync.WaitGroup
	for i, res := range results {
		i, res := i, res
		wg.Add(1)
		go func() {
			defer wg.Done()
			content, err := e.scrapeResult(ctx, res)
			if err != nil {
				zap.L().Warn("page fetch failed, dropping",
					zap.String("source", e.name),
					zap.String("title", res.Title),
					zap.String("url", res.URL),
					zap.Error(err),
				)
				return
			}
			slots[i] = content
		}()
	}
	wg.Wait()

	contents := make([]model.ScrapedContent, 0, len(slots))
	for _, c := range slots {
		if c != nil {
			contents = append(contents, *c)
		}
	}

	zap.L().Info("extraction complete",
		zap.String("source", e.name),
		zap.Int("extracted", len(contents)),
		zap.Int("candidates", len(results)),
	)
	return contents, nil
}

// scrapeResult fetches a single candidate and builds its content record.
func (e *extractor) scrapeResult(ctx context.Context, res model.SearchResult) (*model.ScrapedContent, error) {
	page, err := e.fetcher.Fetch(ctx, res.URL)
	if err != nil {
		return nil, eris.Wrapf(err, "%s: fetch %s", e.name, res.URL)
	}

	// Search result fields first, then page metadata: a backend may refine
	// what search reported, but source and word_count are authoritative.
	metadata := map[string]any{
		"title":   res.Title,
		"url":     res.URL,
		"summary": res.Summary,
	}
	for k, v := range res.Extra {
		metadata[k] = v
	}
	for k, v := range page.Metadata {
		metadata[k] = v
	}
	metadata["source"] = e.name
	metadata["word_count"] = model.WordCount(page.Markdown)

	images := page.Images
	if len(images) > model.MaxImages {
		images = images[:model.MaxImages]
	}

	title := res.Title
	if title == "" {
		title = page.Title
	}
	if title == "" {
		title = "Untitled"
	}

	return &model.ScrapedContent{
		SourceURL: res.URL,
		Title:     title,
		RawText:   page.Markdown,
		Images:    images,
		Metadata:  metadata,
		ScrapedAt: time.Now().UTC(),
	}, nil
}
