package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"github.com/temoto/robotstxt"
	"go.uber.org/zap"
)

// robotsCache lazily fetches and caches parsed robots.txt policies, keyed by
// robots.txt URL. Successful fetches are cached for the process lifetime;
// failures are not cached and the check fails open.
type robotsCache struct {
	mu      sync.Mutex
	client  *http.Client
	entries map[string]*robotstxt.RobotsData
}

func newRobotsCache(client *http.Client) *robotsCache {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &robotsCache{
		client:  client,
		entries: make(map[string]*robotstxt.RobotsData),
	}
}

// allowed reports whether userAgent may fetch rawURL under the target host's
// robots.txt policy. Any failure to obtain or parse the policy defaults to
// allow.
func (c *robotsCache) allowed(ctx context.Context, rawURL, userAgent string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		zap.L().Warn("robots: unparsable url, allowing", zap.String("url", rawURL))
		return true
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)

	c.mu.Lock()
	data, ok := c.entries[robotsURL]
	c.mu.Unlock()

	if !ok {
		data, err = c.fetch(ctx, robotsURL)
		if err != nil {
			zap.L().Warn("robots: could not fetch robots.txt, allowing",
				zap.String("robots_url", robotsURL),
				zap.Error(err),
			)
			return true
		}
		c.mu.Lock()
		c.entries[robotsURL] = data
		c.mu.Unlock()
	}

	return data.TestAgent(u.RequestURI(), userAgent)
}

// fetch retrieves and parses one robots.txt. The lock is never held here:
// a concurrent duplicate fetch is cheaper than blocking every check behind
// network I/O.
func (c *robotsCache) fetch(ctx context.Context, robotsURL string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "robots: create request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "robots: fetch")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return nil, eris.Wrap(err, "robots: read body")
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, eris.Wrap(err, "robots: parse")
	}
	return data, nil
}
