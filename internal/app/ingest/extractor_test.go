package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "order preserved",
			text: "Check this #recipes #dinner out",
			want: []string{"recipes", "dinner"},
		},
		{
			name: "case insensitive duplicates collapse",
			text: "#a #A #a",
			want: []string{"a"},
		},
		{
			name: "hyphenated tags",
			text: "saving for #home-improvement later",
			want: []string{"home-improvement"},
		},
		{
			name: "tag glued to punctuation",
			text: "love it! #recipes, really",
			want: []string{"recipes"},
		},
		{
			name: "no tags",
			text: "just a plain message with a url https://example.com",
			want: nil,
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
		{
			name: "bare hash is not a tag",
			text: "# notatag",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTags(tt.text))
		})
	}
}

func TestNormalizeTag(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "recipes", normalizeTag("#Recipes"))
	assert.Equal(t, "recipes", normalizeTag("  recipes "))
	assert.Equal(t, "home-improvement", normalizeTag("home-improvement"))
	assert.Equal(t, "", normalizeTag("not a tag"))
	assert.Equal(t, "", normalizeTag(""))
	assert.Equal(t, "", normalizeTag("#"))
}

func TestExtractURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "plain url",
			text: "check https://example.com/post out",
			want: "https://example.com/post",
		},
		{
			name: "trailing punctuation stripped",
			text: "see https://example.com/post.",
			want: "https://example.com/post",
		},
		{
			name: "first of several",
			text: "https://a.example https://b.example",
			want: "https://a.example",
		},
		{
			name: "http scheme",
			text: "old site http://example.org/page?id=1",
			want: "http://example.org/page?id=1",
		},
		{
			name: "no url",
			text: "#recipes pasta tonight",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractURL(tt.text))
		})
	}
}
