package enrichment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestFetcher() *PreviewFetcher {
	return NewPreviewFetcher(PreviewFetcherOptions{
		RateInterval: rate.Inf,
		RateBurst:    1,
	})
}

func TestParsePreview_OpenGraphWins(t *testing.T) {
	t.Parallel()

	page := `<html><head>
		<title>Plain Title</title>
		<meta name="description" content="Plain description">
		<meta property="og:title" content="OG Title">
		<meta property="og:description" content="OG description">
		<meta property="og:image" content="https://example.com/og.png">
	</head><body>ignored</body></html>`

	preview := parsePreview(strings.NewReader(page))
	assert.Equal(t, "OG Title", preview.Title)
	assert.Equal(t, "OG description", preview.Description)
	assert.Equal(t, "https://example.com/og.png", preview.ImageURL)
}

func TestParsePreview_FallsBackToTitleAndMetaDescription(t *testing.T) {
	t.Parallel()

	page := `<html><head>
		<title>  Plain Title  </title>
		<meta name="description" content="Plain description">
	</head><body></body></html>`

	preview := parsePreview(strings.NewReader(page))
	assert.Equal(t, "Plain Title", preview.Title)
	assert.Equal(t, "Plain description", preview.Description)
	assert.Empty(t, preview.ImageURL)
}

func TestParsePreview_TwitterCardBeatsFallback(t *testing.T) {
	t.Parallel()

	page := `<html><head>
		<title>Plain Title</title>
		<meta name="twitter:title" content="Card Title">
		<meta name="twitter:image" content="https://example.com/card.png">
	</head><body></body></html>`

	preview := parsePreview(strings.NewReader(page))
	assert.Equal(t, "Card Title", preview.Title)
	assert.Equal(t, "https://example.com/card.png", preview.ImageURL)
}

func TestParsePreview_EmptyDocument(t *testing.T) {
	t.Parallel()

	preview := parsePreview(strings.NewReader("<html><head></head><body></body></html>"))
	assert.True(t, preview.IsEmpty())
}

func TestFetch_HappyPath(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><meta property="og:title" content="Hello"></head></html>`))
	}))
	defer srv.Close()

	preview, err := newTestFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Hello", preview.Title)
}

func TestFetch_NonOKStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestFetcher().Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestFetch_NoMetadataIsAnError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head></head><body>nothing here</body></html>`))
	}))
	defer srv.Close()

	_, err := newTestFetcher().Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}
