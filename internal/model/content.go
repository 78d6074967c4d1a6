package model

import (
	"strings"
	"time"
)

// MaxImages caps how many images are kept per scraped page.
const MaxImages = 10

// Image describes a single image collected from a scraped page.
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text"`
	Caption string `json:"caption,omitempty"`
}

// SearchResult is one candidate page discovered by a source's topic search.
// Title, URL and Summary are required from every source; provider-specific
// fields (page_id, identifier, date, ...) ride in Extra.
type SearchResult struct {
	Title   string         `json:"title"`
	URL     string         `json:"url"`
	Summary string         `json:"summary"`
	Extra   map[string]any `json:"extra,omitempty"`
}

// ScrapedContent is a normalized content record produced by extraction.
// Metadata always carries "source" (provider name) and "word_count", merged
// with the originating search result's fields. Treated as immutable once
// constructed; SourceURL is its only identity.
type ScrapedContent struct {
	SourceURL string         `json:"source_url"`
	Title     string         `json:"title"`
	RawText   string         `json:"raw_text"`
	Images    []Image        `json:"images"`
	Metadata  map[string]any `json:"metadata"`
	ScrapedAt time.Time      `json:"scraped_at"`
}

// WordCount returns the number of whitespace-separated tokens in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
