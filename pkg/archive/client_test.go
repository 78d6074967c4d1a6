package archive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL))
}

func TestSearchItems(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/advancedsearch.php", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "Ramayana", q.Get("q"))
		assert.Equal(t, "5", q.Get("rows"))
		assert.Equal(t, "json", q.Get("output"))
		assert.Contains(t, q["fl[]"], "identifier")

		w.Write([]byte(`{"response":{"numFound":2,"docs":[
			{"identifier":"ramayana-1912","title":"The Ramayana","description":"An epic.","date":"1912-01-01","mediatype":"texts"},
			{"identifier":"valmiki-audio","title":"Valmiki Ramayana","mediatype":"audio"}
		]}}`)) //nolint:errcheck
	})

	items, err := client.SearchItems(context.Background(), "Ramayana", 5)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "ramayana-1912", items[0].Identifier)
	assert.Equal(t, FlexString("The Ramayana"), items[0].Title)
	assert.Equal(t, "texts", items[0].MediaType)
}

func TestSearchItems_ArrayDescription(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"docs":[
			{"identifier":"multi","description":["Part one.","Part two."]}
		]}}`)) //nolint:errcheck
	})

	items, err := client.SearchItems(context.Background(), "x", 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, FlexString("Part one. Part two."), items[0].Description)
}

func TestSearchItems_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.SearchItems(context.Background(), "x", 1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}

func TestFlexString_Unmarshal(t *testing.T) {
	var s FlexString
	require.NoError(t, s.UnmarshalJSON([]byte(`"plain"`)))
	assert.Equal(t, FlexString("plain"), s)

	require.NoError(t, s.UnmarshalJSON([]byte(`["a","b"]`)))
	assert.Equal(t, FlexString("a b"), s)

	assert.Error(t, s.UnmarshalJSON([]byte(`42`)))
}
