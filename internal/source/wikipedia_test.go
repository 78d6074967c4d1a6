package source

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bharatverse/content-pipeline/pkg/wikipedia"
	"github.com/bharatverse/content-pipeline/pkg/wikipedia/mocks"
)

func TestWikipediaSearchTopic_ResolvesPages(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("Search", mock.Anything, "Taj Mahal", 2).
		Return([]string{"Taj Mahal", "Taj Mahal (disambiguation page)"}, nil)
	client.On("GetPage", mock.Anything, "Taj Mahal").
		Return(&wikipedia.Page{
			Title:   "Taj Mahal",
			PageID:  12345,
			URL:     "https://en.wikipedia.org/wiki/Taj_Mahal",
			Summary: "A mausoleum in Agra.",
		}, nil)
	client.On("GetPage", mock.Anything, "Taj Mahal (disambiguation page)").
		Return(nil, wikipedia.ErrPageNotFound)

	s := NewWikipediaSource(client, &fakeFetcher{})
	results := s.SearchTopic(context.Background(), "Taj Mahal", 2)

	require.Len(t, results, 1)
	assert.Equal(t, "Taj Mahal", results[0].Title)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Taj_Mahal", results[0].URL)
	assert.Equal(t, "A mausoleum in Agra.", results[0].Summary)
	assert.Equal(t, int64(12345), results[0].Extra["page_id"])
}

func TestWikipediaSearchTopic_SearchErrorSwallowed(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("Search", mock.Anything, "Taj Mahal", 3).
		Return(nil, errors.New("api down"))

	s := NewWikipediaSource(client, &fakeFetcher{})
	results := s.SearchTopic(context.Background(), "Taj Mahal", 3)
	assert.Empty(t, results)
}

func TestWikipediaSearchTopic_FollowsDisambiguation(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("Search", mock.Anything, "Mercury", 1).
		Return([]string{"Mercury"}, nil)
	client.On("GetPage", mock.Anything, "Mercury").
		Return(&wikipedia.Page{
			Title:          "Mercury",
			Disambiguation: true,
			Options:        []string{"Mercury (planet)", "Mercury (element)"},
		}, nil)
	client.On("GetPage", mock.Anything, "Mercury (planet)").
		Return(&wikipedia.Page{
			Title:   "Mercury (planet)",
			PageID:  999,
			URL:     "https://en.wikipedia.org/wiki/Mercury_(planet)",
			Summary: "The smallest planet.",
		}, nil)

	s := NewWikipediaSource(client, &fakeFetcher{})
	results := s.SearchTopic(context.Background(), "Mercury", 1)

	require.Len(t, results, 1)
	assert.Equal(t, "Mercury (planet)", results[0].Title)
}

func TestWikipediaSearchTopic_DisambiguationDeadEnds(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("Search", mock.Anything, "Mercury", 2).
		Return([]string{"NoOptions", "StillAmbiguous"}, nil)
	client.On("GetPage", mock.Anything, "NoOptions").
		Return(&wikipedia.Page{Title: "NoOptions", Disambiguation: true}, nil)
	client.On("GetPage", mock.Anything, "StillAmbiguous").
		Return(&wikipedia.Page{
			Title:          "StillAmbiguous",
			Disambiguation: true,
			Options:        []string{"Nested"},
		}, nil)
	client.On("GetPage", mock.Anything, "Nested").
		Return(&wikipedia.Page{Title: "Nested", Disambiguation: true}, nil)

	s := NewWikipediaSource(client, &fakeFetcher{})
	results := s.SearchTopic(context.Background(), "Mercury", 2)
	assert.Empty(t, results)
}

func TestWikipediaSource_Name(t *testing.T) {
	s := NewWikipediaSource(mocks.NewMockClient(t), &fakeFetcher{})
	assert.Equal(t, "wikipedia", s.Name())
}
