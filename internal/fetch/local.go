package fetch

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/bharatverse/content-pipeline/internal/model"
)

// LocalOptions configures the local HTTP backend.
type LocalOptions struct {
	UserAgent string
	Timeout   time.Duration
	// MinWords rejects pages whose markdown falls below this token count,
	// so degenerate pages fall through to the next backend.
	MinWords int
}

// LocalBackend fetches HTML via net/http, extracts the main content with
// readability, and converts it to markdown. Free, no API calls. Falls
// through to Jina/Firecrawl when blocked.
type LocalBackend struct {
	client    *http.Client
	limiter   *rate.Limiter
	converter *md.Converter
	opts      LocalOptions
}

// NewLocalBackend creates a LocalBackend with sensible defaults.
func NewLocalBackend(opts LocalOptions) *LocalBackend {
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0 (compatible; ContentPipelineBot/1.0)"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}
	return &LocalBackend{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		limiter:   rate.NewLimiter(5, 5),
		converter: md.NewConverter("", true, nil),
		opts:      opts,
	}
}

// Name implements Client.
func (l *LocalBackend) Name() string { return "local_http" }

// Supports implements Client.
func (l *LocalBackend) Supports(_ string) bool { return true }

// Fetch retrieves a URL, extracts the readable article, and converts it to
// markdown with up to 10 image descriptors from the page.
func (l *LocalBackend) Fetch(ctx context.Context, targetURL string) (*Page, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "local_http: rate limiter wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "local_http: create request")
	}
	req.Header.Set("User-Agent", l.opts.UserAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "local_http: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, eris.Wrap(err, "local_http: read body")
	}

	if blocked, blockType := detectBlock(resp, body); blocked {
		return nil, eris.Errorf("local_http: blocked (%s)", blockType)
	}

	if resp.StatusCode >= 400 {
		return nil, eris.Errorf("local_http: status %d", resp.StatusCode)
	}

	pageURL, err := url.Parse(targetURL)
	if err != nil {
		return nil, eris.Wrapf(err, "local_http: parse url %s", targetURL)
	}

	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return nil, eris.Wrapf(err, "local_http: extract article from %s", targetURL)
	}

	markdown, err := l.converter.ConvertString(article.Content)
	if err != nil {
		return nil, eris.Wrap(err, "local_http: convert to markdown")
	}

	if l.opts.MinWords > 0 && model.WordCount(markdown) < l.opts.MinWords {
		return nil, eris.Errorf("local_http: page below %d word threshold", l.opts.MinWords)
	}

	metadata := map[string]any{
		"fetcher": "local_http",
	}
	if article.Excerpt != "" {
		metadata["excerpt"] = article.Excerpt
	}
	if article.SiteName != "" {
		metadata["site_name"] = article.SiteName
	}

	return &Page{
		URL:        targetURL,
		Title:      article.Title,
		Markdown:   markdown,
		Images:     collectImages(body, pageURL, model.MaxImages),
		Metadata:   metadata,
		StatusCode: resp.StatusCode,
	}, nil
}

// collectImages scans the full document for <img> tags, resolving relative
// sources against the page URL, keeping document order and at most limit
// entries.
func collectImages(body []byte, pageURL *url.URL, limit int) []model.Image {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	var images []model.Image
	doc.Find("img").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		src, ok := sel.Attr("src")
		if !ok || src == "" {
			return true
		}
		if ref, err := url.Parse(src); err == nil {
			src = pageURL.ResolveReference(ref).String()
		}
		images = append(images, model.Image{
			URL:     src,
			AltText: sel.AttrOr("alt", ""),
			Caption: sel.AttrOr("title", ""),
		})
		return len(images) < limit
	})
	return images
}

// challengeSignatures mark bot-challenge interstitials served with 200s.
var challengeSignatures = []string{
	"checking your browser",
	"just a moment",
	"attention required",
	"verify you are human",
}

// detectBlock flags responses that look like bot blocks rather than content.
func detectBlock(resp *http.Response, body []byte) (bool, string) {
	switch resp.StatusCode {
	case http.StatusForbidden:
		return true, "forbidden"
	case http.StatusTooManyRequests:
		return true, "rate_limited"
	}

	if len(body) < 4096 {
		lower := strings.ToLower(string(body))
		for _, sig := range challengeSignatures {
			if strings.Contains(lower, sig) {
				return true, "challenge"
			}
		}
	}

	return false, ""
}
