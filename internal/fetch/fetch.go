// Package fetch provides the markdown fetch backends used by content
// sources. A backend takes a URL and returns a normalized page: markdown
// body, metadata, and a capped list of image descriptors.
package fetch

import (
	"context"

	"github.com/bharatverse/content-pipeline/internal/model"
)

// Page is a fetched page normalized to markdown.
type Page struct {
	URL        string
	Title      string
	Markdown   string
	Images     []model.Image
	Metadata   map[string]any
	StatusCode int
}

// Client fetches a single URL and returns its normalized content.
type Client interface {
	Fetch(ctx context.Context, url string) (*Page, error)
	Name() string
	Supports(url string) bool
}
