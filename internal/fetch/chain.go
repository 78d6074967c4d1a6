package fetch

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Chain tries backends in priority order, returning the first success.
type Chain struct {
	backends []Client
}

// NewChain creates a Chain from the given backends. Backends are tried in
// order; the first successful result is returned.
func NewChain(backends ...Client) *Chain {
	return &Chain{backends: backends}
}

// Name implements Client.
func (c *Chain) Name() string { return "chain" }

// Supports implements Client. The chain itself accepts any URL; individual
// backends may still decline it.
func (c *Chain) Supports(_ string) bool { return true }

// Fetch tries each backend in order for a single URL.
// Returns the first successful result, or an error if all fail.
func (c *Chain) Fetch(ctx context.Context, targetURL string) (*Page, error) {
	var lastErr error
	for _, b := range c.backends {
		if !b.Supports(targetURL) {
			continue
		}
		page, err := b.Fetch(ctx, targetURL)
		if err == nil && page != nil {
			return page, nil
		}
		if err != nil {
			zap.L().Debug("fetch: backend failed, trying next",
				zap.String("backend", b.Name()),
				zap.String("url", targetURL),
				zap.Error(err),
			)
			lastErr = err
		}
	}
	if lastErr != nil {
		return nil, eris.Wrap(lastErr, "fetch: all backends failed")
	}
	return nil, eris.Errorf("fetch: no suitable backend for url: %s", targetURL)
}
