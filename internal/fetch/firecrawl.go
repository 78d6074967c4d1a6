package fetch

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/bharatverse/content-pipeline/internal/model"
	"github.com/bharatverse/content-pipeline/pkg/firecrawl"
)

// FirecrawlBackend wraps a Firecrawl client as a fetch backend.
type FirecrawlBackend struct {
	client firecrawl.Client
}

// NewFirecrawlBackend creates a FirecrawlBackend from a Firecrawl client.
func NewFirecrawlBackend(client firecrawl.Client) *FirecrawlBackend {
	return &FirecrawlBackend{client: client}
}

// Name implements Client.
func (f *FirecrawlBackend) Name() string { return "firecrawl" }

// Supports implements Client.
func (f *FirecrawlBackend) Supports(_ string) bool { return true }

// Fetch retrieves a URL via the Firecrawl scrape API.
func (f *FirecrawlBackend) Fetch(ctx context.Context, targetURL string) (*Page, error) {
	resp, err := f.client.Scrape(ctx, firecrawl.ScrapeRequest{
		URL:     targetURL,
		Formats: []string{"markdown"},
	})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, eris.Errorf("firecrawl: scrape not successful for %s", targetURL)
	}

	pageURL := resp.Data.URL
	if pageURL == "" {
		pageURL = targetURL
	}
	return &Page{
		URL:      pageURL,
		Title:    resp.Data.Title,
		Markdown: resp.Data.Markdown,
		Images:   imagesFromMarkdown(resp.Data.Markdown, model.MaxImages),
		Metadata: map[string]any{
			"fetcher": "firecrawl",
		},
		StatusCode: resp.Data.StatusCode,
	}, nil
}
