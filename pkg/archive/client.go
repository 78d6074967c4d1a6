// Package archive provides a client for the archive.org advanced search API.
package archive

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://archive.org"

// Client defines the archive.org operations used for topic discovery.
type Client interface {
	// SearchItems runs a single advancedsearch query capped at rows results.
	SearchItems(ctx context.Context, query string, rows int) ([]Item, error)
}

// Item is one archive.org search hit.
type Item struct {
	Identifier  string     `json:"identifier"`
	Title       FlexString `json:"title"`
	Description FlexString `json:"description"`
	Date        string     `json:"date"`
	MediaType   string     `json:"mediatype"`
}

// FlexString decodes fields archive.org returns as either a string or an
// array of strings, joining arrays with a single space.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = FlexString(single)
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*s = FlexString(strings.Join(many, " "))
		return nil
	}
	return eris.Errorf("archive: unsupported string field: %s", string(data))
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient creates an archive.org search client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) SearchItems(ctx context.Context, query string, rows int) ([]Item, error) {
	params := url.Values{}
	params.Set("q", query)
	for _, field := range []string{"identifier", "title", "description", "date", "mediatype"} {
		params.Add("fl[]", field)
	}
	params.Set("rows", strconv.Itoa(rows))
	params.Set("page", "1")
	params.Set("output", "json")

	reqURL := c.baseURL + "/advancedsearch.php?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "archive: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "archive: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "archive: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("archive: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		Response struct {
			NumFound int    `json:"numFound"`
			Docs     []Item `json:"docs"`
		} `json:"response"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, eris.Wrap(err, "archive: unmarshal response")
	}

	return out.Response.Docs, nil
}
