// Package source defines the pluggable content sources a topic can be
// acquired from. New providers implement ContentSource and register an
// instance; the orchestrator never changes.
package source

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/bharatverse/content-pipeline/internal/model"
)

// ContentSource discovers candidate pages for a topic and extracts
// normalized content from them.
type ContentSource interface {
	// Name returns the unique identifier used as the registry key.
	Name() string
	// SearchTopic returns at most maxResults candidates for the topic.
	// Upstream failures are logged and swallowed here: an empty slice never
	// distinguishes "provider degraded" from "no matches", so that a single
	// provider outage cannot starve the multi-source fan-out.
	SearchTopic(ctx context.Context, topic string, maxResults int) []model.SearchResult
	// Extract searches the topic and fetches each candidate page. An empty
	// search is the one case where absence of results is an error
	// (ErrNoCandidates); individual page failures are dropped, so a partial
	// or even empty list is a valid success once candidates exist.
	Extract(ctx context.Context, topic string, maxPages int) ([]model.ScrapedContent, error)
}

// Registry is a name-keyed lookup of registered content sources.
// Listing preserves registration order; re-registering a name replaces the
// instance without changing its position.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]ContentSource
	order   []string
}

// NewRegistry creates an empty source registry.
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[string]ContentSource),
	}
}

// Register adds a source to the registry, overwriting any prior
// registration under the same name.
func (r *Registry) Register(src ContentSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := src.Name()
	if _, exists := r.sources[name]; !exists {
		r.order = append(r.order, name)
	}
	r.sources[name] = src
	zap.L().Info("registered source", zap.String("source", name))
}

// Get returns a source by name.
func (r *Registry) Get(name string) (ContentSource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src, ok := r.sources[name]
	return src, ok
}

// List returns all registered source names in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
