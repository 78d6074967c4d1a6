package source

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bharatverse/content-pipeline/internal/fetch"
	"github.com/bharatverse/content-pipeline/internal/model"
	"github.com/bharatverse/content-pipeline/pkg/archive"
)

// ArchiveOrgSource discovers items through the archive.org search API with a
// single row-capped query per topic.
type ArchiveOrgSource struct {
	extractor
	client archive.Client
}

// NewArchiveOrgSource creates an archive.org content source.
func NewArchiveOrgSource(client archive.Client, fetcher fetch.Client) *ArchiveOrgSource {
	s := &ArchiveOrgSource{client: client}
	s.extractor = extractor{
		name:    "archive_org",
		fetcher: fetcher,
		search:  s.SearchTopic,
	}
	return s
}

var _ ContentSource = (*ArchiveOrgSource)(nil)

// SearchTopic maps archive.org hits into search results. Hits without an
// identifier are dropped; a missing description falls back to a generated
// summary.
func (s *ArchiveOrgSource) SearchTopic(ctx context.Context, topic string, maxResults int) []model.SearchResult {
	zap.L().Info("searching archive.org",
		zap.String("topic", topic),
		zap.Int("max_results", maxResults),
	)

	items, err := s.client.SearchItems(ctx, topic, maxResults)
	if err != nil {
		zap.L().Error("archive.org search failed",
			zap.String("topic", topic),
			zap.Error(err),
		)
		return nil
	}

	results := make([]model.SearchResult, 0, len(items))
	for _, item := range items {
		if item.Identifier == "" {
			continue
		}

		title := string(item.Title)
		if title == "" {
			title = item.Identifier
		}
		summary := string(item.Description)
		if summary == "" {
			summary = fmt.Sprintf("Archive.org item: %s", item.Identifier)
		}

		results = append(results, model.SearchResult{
			Title:   title,
			URL:     fmt.Sprintf("https://archive.org/details/%s", item.Identifier),
			Summary: summary,
			Extra: map[string]any{
				"identifier": item.Identifier,
				"date":       item.Date,
				"mediatype":  item.MediaType,
			},
		})
		if len(results) >= maxResults {
			break
		}
	}

	zap.L().Info("archive.org results",
		zap.String("topic", topic),
		zap.Int("results", len(results)),
	)
	return results
}
