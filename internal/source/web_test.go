package source

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatverse/content-pipeline/pkg/jina"
)

// stubJina implements jina.Client for testing.
type stubJina struct {
	searchResp *jina.SearchResponse
	searchErr  error
}

func (s *stubJina) Read(_ context.Context, _ string) (*jina.ReadResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubJina) Search(_ context.Context, _ string, _ ...jina.SearchOption) (*jina.SearchResponse, error) {
	return s.searchResp, s.searchErr
}

func TestWebSearchTopic_MapsHits(t *testing.T) {
	client := &stubJina{searchResp: &jina.SearchResponse{
		Data: []jina.SearchResult{
			{Title: "First", URL: "https://example.com/1", Description: "desc one"},
			{Title: "No URL, dropped"},
			{Title: "Second", URL: "https://example.com/2", Content: "content two"},
		},
	}}

	s := NewWebSource(client, &fakeFetcher{})
	results := s.SearchTopic(context.Background(), "Taj Mahal", 5)

	require.Len(t, results, 2)
	assert.Equal(t, "https://example.com/1", results[0].URL)
	assert.Equal(t, "desc one", results[0].Summary)
	// Content is the fallback summary when description is empty.
	assert.Equal(t, "content two", results[1].Summary)
}

func TestWebSearchTopic_CapsResults(t *testing.T) {
	client := &stubJina{searchResp: &jina.SearchResponse{
		Data: []jina.SearchResult{
			{Title: "1", URL: "https://example.com/1"},
			{Title: "2", URL: "https://example.com/2"},
			{Title: "3", URL: "https://example.com/3"},
		},
	}}

	s := NewWebSource(client, &fakeFetcher{})
	results := s.SearchTopic(context.Background(), "topic", 2)
	assert.Len(t, results, 2)
}

func TestWebSearchTopic_ErrorSwallowed(t *testing.T) {
	client := &stubJina{searchErr: errors.New("api down")}

	s := NewWebSource(client, &fakeFetcher{})
	results := s.SearchTopic(context.Background(), "topic", 3)
	assert.Empty(t, results)
}

func TestWebSource_Name(t *testing.T) {
	s := NewWebSource(&stubJina{}, &fakeFetcher{})
	assert.Equal(t, "web", s.Name())
}
