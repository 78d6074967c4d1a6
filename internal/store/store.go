// Package store persists scraped content so pipeline runs can be resumed
// and inspected without re-fetching.
package store

import (
	"context"

	"github.com/bharatverse/content-pipeline/internal/model"
)

// Record is one persisted page of scraped content.
type Record struct {
	ID      string
	Topic   string
	Content model.ScrapedContent
}

// Filter narrows ListByTopic results.
type Filter struct {
	Source string
	Limit  int
	Offset int
}

// Store defines persistence operations for scraped content.
type Store interface {
	Migrate(ctx context.Context) error
	SaveContents(ctx context.Context, topic string, contents []model.ScrapedContent) ([]Record, error)
	ListByTopic(ctx context.Context, topic string, filter Filter) ([]Record, error)
	ListTopics(ctx context.Context) ([]string, error)
	Close() error
}
