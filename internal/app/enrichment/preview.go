package enrichment

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"backend/internal/app/message"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

// PreviewFetcher downloads a page and extracts link-preview metadata. The
// limiter throttles outbound requests because the pages we hit are whatever
// users paste into messages; some of them rate-limit aggressively.
type PreviewFetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	maxBody   int64
}

type PreviewFetcherOptions struct {
	UserAgent    string
	RateInterval rate.Limit
	RateBurst    int
	MaxBodyBytes int64
}

func NewPreviewFetcher(opts PreviewFetcherOptions) *PreviewFetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = "tagboard-link-preview/1.0"
	}
	if opts.RateInterval <= 0 {
		opts.RateInterval = rate.Limit(1)
	}
	if opts.RateBurst < 1 {
		opts.RateBurst = 3
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 2 * 1024 * 1024
	}
	return &PreviewFetcher{
		client:    &http.Client{},
		limiter:   rate.NewLimiter(opts.RateInterval, opts.RateBurst),
		userAgent: opts.UserAgent,
		maxBody:   opts.MaxBodyBytes,
	}
}

func (f *PreviewFetcher) Fetch(ctx context.Context, url string) (message.Preview, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return message.Preview{}, fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return message.Preview{}, fmt.Errorf("failed to build preview request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return message.Preview{}, fmt.Errorf("failed to fetch preview: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return message.Preview{}, fmt.Errorf("preview fetch returned status %d", resp.StatusCode)
	}

	preview := parsePreview(io.LimitReader(resp.Body, f.maxBody))
	if preview.IsEmpty() {
		return message.Preview{}, fmt.Errorf("no preview metadata found")
	}
	return preview, nil
}

// parsePreview walks the document head. OpenGraph properties win over
// twitter: cards, which win over the plain <title>/meta description.
func parsePreview(r io.Reader) message.Preview {
	var preview message.Preview
	var fallbackTitle, fallbackDesc string

	tokenizer := html.NewTokenizer(r)
	inTitle := false

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return merge(preview, fallbackTitle, fallbackDesc)

		case html.TextToken:
			if inTitle && fallbackTitle == "" {
				fallbackTitle = strings.TrimSpace(string(tokenizer.Text()))
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			switch token.Data {
			case "title":
				inTitle = true
			case "meta":
				var name, property, content string
				for _, attr := range token.Attr {
					switch attr.Key {
					case "name":
						name = strings.ToLower(attr.Val)
					case "property":
						property = strings.ToLower(attr.Val)
					case "content":
						content = strings.TrimSpace(attr.Val)
					}
				}
				if content == "" {
					continue
				}
				switch {
				case property == "og:title":
					preview.Title = content
				case property == "og:description":
					preview.Description = content
				case property == "og:image":
					preview.ImageURL = content
				case name == "twitter:title" && preview.Title == "":
					preview.Title = content
				case name == "twitter:description" && preview.Description == "":
					preview.Description = content
				case name == "twitter:image" && preview.ImageURL == "":
					preview.ImageURL = content
				case name == "description" && fallbackDesc == "":
					fallbackDesc = content
				}
			case "body":
				// Preview metadata lives in <head>; stop before scanning content.
				return merge(preview, fallbackTitle, fallbackDesc)
			}

		case html.EndTagToken:
			if tokenizer.Token().Data == "title" {
				inTitle = false
			}
		}
	}
}

func merge(preview message.Preview, fallbackTitle, fallbackDesc string) message.Preview {
	if preview.Title == "" {
		preview.Title = fallbackTitle
	}
	if preview.Description == "" {
		preview.Description = fallbackDesc
	}
	return preview
}
