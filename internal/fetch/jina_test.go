package fetch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatverse/content-pipeline/pkg/jina"
)

// stubJinaClient implements jina.Client for testing.
type stubJinaClient struct {
	resp *jina.ReadResponse
	err  error
}

func (s *stubJinaClient) Read(_ context.Context, _ string) (*jina.ReadResponse, error) {
	return s.resp, s.err
}

func (s *stubJinaClient) Search(_ context.Context, _ string, _ ...jina.SearchOption) (*jina.SearchResponse, error) {
	return nil, errors.New("not implemented")
}

func goodResponse() *jina.ReadResponse {
	return &jina.ReadResponse{
		Code: 200,
		Data: jina.ReadData{
			Title:   "Example",
			URL:     "https://example.com",
			Content: strings.Repeat("real page content ", 20),
			Usage:   jina.ReadUsage{Tokens: 120},
		},
	}
}

func TestJinaBackend_Fetch(t *testing.T) {
	b := NewJinaBackend(&stubJinaClient{resp: goodResponse()})

	page, err := b.Fetch(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", page.URL)
	assert.Equal(t, "Example", page.Title)
	assert.Equal(t, "jina", page.Metadata["fetcher"])
	assert.Equal(t, 120, page.Metadata["tokens"])
}

func TestJinaBackend_CircuitBreakerOpens(t *testing.T) {
	b := NewJinaBackend(&stubJinaClient{err: errors.New("upstream error")})

	for i := 0; i < 3; i++ {
		assert.True(t, b.Supports("https://example.com"))
		_, err := b.Fetch(context.Background(), "https://example.com")
		assert.Error(t, err)
	}

	// Third consecutive failure trips the breaker.
	assert.False(t, b.Supports("https://example.com"))
	_, err := b.Fetch(context.Background(), "https://example.com")
	assert.Contains(t, err.Error(), "circuit breaker open")
}

func TestCircuitBreaker_SuccessResets(t *testing.T) {
	cb := newCircuitBreaker(3, 30*time.Second, 60*time.Second)

	cb.recordFailure()
	cb.recordFailure()
	cb.recordSuccess()
	cb.recordFailure()
	cb.recordFailure()

	assert.False(t, cb.isOpen())
	cb.recordFailure()
	assert.True(t, cb.isOpen())
}

func TestCircuitBreaker_WindowExpiry(t *testing.T) {
	cb := newCircuitBreaker(2, 10*time.Millisecond, time.Minute)

	cb.recordFailure()
	time.Sleep(20 * time.Millisecond)
	cb.recordFailure()

	// First failure fell out of the window, so the count restarted.
	assert.False(t, cb.isOpen())
}

func TestNeedsFallback(t *testing.T) {
	assert.True(t, needsFallback(nil))
	assert.True(t, needsFallback(&jina.ReadResponse{Code: 451}))
	assert.True(t, needsFallback(&jina.ReadResponse{Code: 200, Data: jina.ReadData{Content: "too short"}}))
	assert.True(t, needsFallback(&jina.ReadResponse{
		Code: 200,
		Data: jina.ReadData{Content: "Just a moment... Checking your browser before accessing the site. " + strings.Repeat("x", 100)},
	}))
	assert.False(t, needsFallback(goodResponse()))
}
