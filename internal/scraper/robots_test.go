package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

const robotsBody = `User-agent: *
Disallow: /private/

User-agent: badbot
Disallow: /
`

func newRobotsServer(t *testing.T, fetches *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		fetches.Add(1)
		w.Write([]byte(robotsBody)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRobotsCache_AllowAndDeny(t *testing.T) {
	var fetches atomic.Int64
	srv := newRobotsServer(t, &fetches)
	c := newRobotsCache(srv.Client())

	assert.True(t, c.allowed(context.Background(), srv.URL+"/public/page", "*"))
	assert.False(t, c.allowed(context.Background(), srv.URL+"/private/page", "*"))
	assert.False(t, c.allowed(context.Background(), srv.URL+"/anything", "badbot"))
}

func TestRobotsCache_CachesPerHost(t *testing.T) {
	var fetches atomic.Int64
	srv := newRobotsServer(t, &fetches)
	c := newRobotsCache(srv.Client())

	for i := 0; i < 5; i++ {
		c.allowed(context.Background(), srv.URL+"/public/page", "*")
	}
	assert.Equal(t, int64(1), fetches.Load())
}

func TestRobotsCache_FetchFailureAllows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := newRobotsCache(nil)
	assert.True(t, c.allowed(context.Background(), srv.URL+"/private/page", "*"))
}

func TestRobotsCache_UnparsableURLAllows(t *testing.T) {
	c := newRobotsCache(nil)
	assert.True(t, c.allowed(context.Background(), "not a url", "*"))
	assert.True(t, c.allowed(context.Background(), "/relative/only", "*"))
}
