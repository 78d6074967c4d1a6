// Package wikipedia provides a client for the MediaWiki Action API.
package wikipedia

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://en.wikipedia.org/w/api.php"

// ErrPageNotFound is returned by GetPage when the title does not exist.
var ErrPageNotFound = eris.New("wikipedia: page not found")

// Client defines the Wikipedia operations used for topic discovery.
type Client interface {
	// Search returns ranked page titles matching the query, at most limit.
	Search(ctx context.Context, query string, limit int) ([]string, error)
	// GetPage resolves a title into full page metadata. Returns
	// ErrPageNotFound when the title does not exist.
	GetPage(ctx context.Context, title string) (*Page, error)
}

// Page holds resolved page metadata.
type Page struct {
	Title   string
	PageID  int64
	URL     string
	Summary string
	// Disambiguation marks the page as a disambiguation page; Options then
	// holds the linked article titles in page order.
	Disambiguation bool
	Options        []string
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithUserAgent sets the User-Agent header sent to the API.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		c.userAgent = ua
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient creates a MediaWiki API client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:   defaultBaseURL,
		userAgent: "content-pipeline/1.0",
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, query string, limit int) ([]string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", strconv.Itoa(limit))

	var out struct {
		Query struct {
			Search []struct {
				Title string `json:"title"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := c.get(ctx, params, &out); err != nil {
		return nil, eris.Wrapf(err, "wikipedia: search %q", query)
	}

	titles := make([]string, 0, len(out.Query.Search))
	for _, hit := range out.Query.Search {
		titles = append(titles, hit.Title)
	}
	return titles, nil
}

func (c *httpClient) GetPage(ctx context.Context, title string) (*Page, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("titles", title)
	params.Set("redirects", "1")
	params.Set("prop", "extracts|info|pageprops|links")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("inprop", "url")
	params.Set("ppprop", "disambiguation")
	params.Set("plnamespace", "0")
	params.Set("pllimit", "20")

	var out struct {
		Query struct {
			Pages []struct {
				PageID    int64             `json:"pageid"`
				Title     string            `json:"title"`
				Missing   bool              `json:"missing"`
				FullURL   string            `json:"fullurl"`
				Extract   string            `json:"extract"`
				PageProps map[string]string `json:"pageprops"`
				Links     []struct {
					Title string `json:"title"`
				} `json:"links"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := c.get(ctx, params, &out); err != nil {
		return nil, eris.Wrapf(err, "wikipedia: get page %q", title)
	}

	if len(out.Query.Pages) == 0 {
		return nil, eris.Wrapf(ErrPageNotFound, "title %q", title)
	}
	p := out.Query.Pages[0]
	if p.Missing {
		return nil, eris.Wrapf(ErrPageNotFound, "title %q", title)
	}

	page := &Page{
		Title:   p.Title,
		PageID:  p.PageID,
		URL:     p.FullURL,
		Summary: p.Extract,
	}
	if _, ok := p.PageProps["disambiguation"]; ok {
		page.Disambiguation = true
		for _, l := range p.Links {
			page.Options = append(page.Options, l.Title)
		}
	}
	return page, nil
}

func (c *httpClient) get(ctx context.Context, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}
