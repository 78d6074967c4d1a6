package source

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/bharatverse/content-pipeline/internal/fetch"
	"github.com/bharatverse/content-pipeline/internal/model"
	"github.com/bharatverse/content-pipeline/pkg/wikipedia"
)

// WikipediaSource discovers pages through the MediaWiki API: a ranked title
// search followed by per-title resolution into full metadata.
type WikipediaSource struct {
	extractor
	client wikipedia.Client
}

// NewWikipediaSource creates a Wikipedia content source.
func NewWikipediaSource(client wikipedia.Client, fetcher fetch.Client) *WikipediaSource {
	s := &WikipediaSource{client: client}
	s.extractor = extractor{
		name:    "wikipedia",
		fetcher: fetcher,
		search:  s.SearchTopic,
	}
	return s
}

var _ ContentSource = (*WikipediaSource)(nil)

// SearchTopic resolves a topic into ranked pages. Titles that do not exist
// are dropped; a disambiguation page is followed to its first option once
// and dropped if that fails too.
func (s *WikipediaSource) SearchTopic(ctx context.Context, topic string, maxResults int) []model.SearchResult {
	zap.L().Info("searching wikipedia",
		zap.String("topic", topic),
		zap.Int("max_results", maxResults),
	)

	titles, err := s.client.Search(ctx, topic, maxResults)
	if err != nil {
		zap.L().Error("wikipedia search failed",
			zap.String("topic", topic),
			zap.Error(err),
		)
		return nil
	}
	if len(titles) == 0 {
		zap.L().Warn("no wikipedia results", zap.String("topic", topic))
		return nil
	}

	results := make([]model.SearchResult, 0, len(titles))
	for _, title := range titles {
		if res, ok := s.resolveTitle(ctx, title); ok {
			results = append(results, res)
		}
	}

	zap.L().Info("wikipedia pages resolved",
		zap.String("topic", topic),
		zap.Int("resolved", len(results)),
	)
	return results
}

// resolveTitle fetches full metadata for one title.
func (s *WikipediaSource) resolveTitle(ctx context.Context, title string) (model.SearchResult, bool) {
	page, err := s.client.GetPage(ctx, title)
	if err != nil {
		if errors.Is(err, wikipedia.ErrPageNotFound) {
			zap.L().Warn("wikipedia page not found", zap.String("title", title))
		} else {
			zap.L().Error("wikipedia page lookup failed",
				zap.String("title", title),
				zap.Error(err),
			)
		}
		return model.SearchResult{}, false
	}

	if page.Disambiguation {
		zap.L().Info("disambiguation page, trying first option",
			zap.String("title", title),
		)
		if len(page.Options) == 0 {
			return model.SearchResult{}, false
		}
		page, err = s.client.GetPage(ctx, page.Options[0])
		if err != nil || page.Disambiguation {
			return model.SearchResult{}, false
		}
	}

	return model.SearchResult{
		Title:   page.Title,
		URL:     page.URL,
		Summary: page.Summary,
		Extra: map[string]any{
			"page_id": page.PageID,
		},
	}, true
}
