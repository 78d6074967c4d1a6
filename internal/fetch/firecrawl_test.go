package fetch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatverse/content-pipeline/pkg/firecrawl"
)

// stubFirecrawl implements firecrawl.Client for testing.
type stubFirecrawl struct {
	resp *firecrawl.ScrapeResponse
	err  error
}

func (s *stubFirecrawl) Scrape(_ context.Context, _ firecrawl.ScrapeRequest) (*firecrawl.ScrapeResponse, error) {
	return s.resp, s.err
}

func TestFirecrawlBackend_Fetch(t *testing.T) {
	b := NewFirecrawlBackend(&stubFirecrawl{resp: &firecrawl.ScrapeResponse{
		Success: true,
		Data: firecrawl.PageData{
			URL:        "https://example.com",
			Title:      "Example",
			Markdown:   "# Example\n\n![pic](https://example.com/pic.png)",
			StatusCode: 200,
		},
	}})

	page, err := b.Fetch(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "Example", page.Title)
	assert.Equal(t, "firecrawl", page.Metadata["fetcher"])
	require.Len(t, page.Images, 1)
	assert.Equal(t, "https://example.com/pic.png", page.Images[0].URL)
}

func TestFirecrawlBackend_NotSuccessful(t *testing.T) {
	b := NewFirecrawlBackend(&stubFirecrawl{resp: &firecrawl.ScrapeResponse{Success: false}})

	_, err := b.Fetch(context.Background(), "https://example.com")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not successful")
}

func TestFirecrawlBackend_ClientError(t *testing.T) {
	clientErr := errors.New("network error")
	b := NewFirecrawlBackend(&stubFirecrawl{err: clientErr})

	_, err := b.Fetch(context.Background(), "https://example.com")
	assert.ErrorIs(t, err, clientErr)
}
