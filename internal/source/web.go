package source

import (
	"context"

	"go.uber.org/zap"

	"github.com/bharatverse/content-pipeline/internal/fetch"
	"github.com/bharatverse/content-pipeline/internal/model"
	"github.com/bharatverse/content-pipeline/pkg/jina"
)

// WebSource discovers pages through Jina web search. It is registered only
// when a Jina API key is configured.
type WebSource struct {
	extractor
	client jina.Client
}

// NewWebSource creates a general web content source backed by Jina search.
func NewWebSource(client jina.Client, fetcher fetch.Client) *WebSource {
	s := &WebSource{client: client}
	s.extractor = extractor{
		name:    "web",
		fetcher: fetcher,
		search:  s.SearchTopic,
	}
	return s
}

var _ ContentSource = (*WebSource)(nil)

// SearchTopic maps Jina search hits into search results. Hits without a URL
// are dropped.
func (s *WebSource) SearchTopic(ctx context.Context, topic string, maxResults int) []model.SearchResult {
	zap.L().Info("searching web",
		zap.String("topic", topic),
		zap.Int("max_results", maxResults),
	)

	resp, err := s.client.Search(ctx, topic)
	if err != nil {
		zap.L().Error("web search failed",
			zap.String("topic", topic),
			zap.Error(err),
		)
		return nil
	}

	results := make([]model.SearchResult, 0, maxResults)
	for _, hit := range resp.Data {
		if hit.URL == "" {
			continue
		}
		summary := hit.Description
		if summary == "" {
			summary = hit.Content
		}
		results = append(results, model.SearchResult{
			Title:   hit.Title,
			URL:     hit.URL,
			Summary: summary,
		})
		if len(results) >= maxResults {
			break
		}
	}

	zap.L().Info("web results",
		zap.String("topic", topic),
		zap.Int("results", len(results)),
	)
	return results
}
