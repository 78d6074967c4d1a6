package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatverse/content-pipeline/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testContent(sourceName, url string) model.ScrapedContent {
	return model.ScrapedContent{
		SourceURL: url,
		Title:     "Taj Mahal",
		RawText:   "The Taj Mahal is an ivory-white marble mausoleum.",
		Images: []model.Image{
			{URL: "https://example.com/taj.jpg", AltText: "The mausoleum"},
		},
		Metadata: map[string]any{
			"source":  sourceName,
			"summary": "A mausoleum in Agra.",
		},
		ScrapedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestSQLite_SaveAndList(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	records, err := st.SaveContents(ctx, "Taj Mahal", []model.ScrapedContent{
		testContent("wikipedia", "https://en.wikipedia.org/wiki/Taj_Mahal"),
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.NotEmpty(t, records[0].ID)

	got, err := st.ListByTopic(ctx, "Taj Mahal", Filter{})
	require.NoError(t, err)
	require.Len(t, got, 1)

	c := got[0].Content
	assert.Equal(t, "https://en.wikipedia.org/wiki/Taj_Mahal", c.SourceURL)
	assert.Equal(t, "Taj Mahal", c.Title)
	assert.Contains(t, c.RawText, "marble mausoleum")
	require.Len(t, c.Images, 1)
	assert.Equal(t, "The mausoleum", c.Images[0].AltText)
	assert.Equal(t, "wikipedia", c.Metadata["source"])
}

func TestSQLite_SaveEmpty(t *testing.T) {
	st := newTestStore(t)

	records, err := st.SaveContents(context.Background(), "topic", nil)
	require.NoError(t, err)
	assert.Nil(t, records)
}

func TestSQLite_ListByTopic_SourceFilter(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.SaveContents(ctx, "Taj Mahal", []model.ScrapedContent{
		testContent("wikipedia", "https://en.wikipedia.org/wiki/Taj_Mahal"),
		testContent("archive_org", "https://archive.org/details/taj-mahal"),
	})
	require.NoError(t, err)

	got, err := st.ListByTopic(ctx, "Taj Mahal", Filter{Source: "archive_org"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://archive.org/details/taj-mahal", got[0].Content.SourceURL)
}

func TestSQLite_ListByTopic_UnknownTopic(t *testing.T) {
	st := newTestStore(t)

	got, err := st.ListByTopic(context.Background(), "never scraped", Filter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLite_ListByTopic_Limit(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	var contents []model.ScrapedContent
	for i := 0; i < 5; i++ {
		contents = append(contents, testContent("wikipedia", "https://example.com/page"))
	}
	_, err := st.SaveContents(ctx, "topic", contents)
	require.NoError(t, err)

	got, err := st.ListByTopic(ctx, "topic", Filter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSQLite_ListTopics(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.SaveContents(ctx, "Taj Mahal", []model.ScrapedContent{
		testContent("wikipedia", "https://example.com/1"),
	})
	require.NoError(t, err)
	_, err = st.SaveContents(ctx, "Ramayana", []model.ScrapedContent{
		testContent("archive_org", "https://example.com/2"),
	})
	require.NoError(t, err)

	topics, err := st.ListTopics(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Taj Mahal", "Ramayana"}, topics)
}
