package ingest

import (
	"regexp"
	"strings"
)

var (
	tagPattern = regexp.MustCompile(`#([A-Za-z0-9-]+)`)
	urlPattern = regexp.MustCompile(`https?://[^\s<>"']+`)
)

// ExtractTags returns the hashtags of text in first-occurrence order,
// lowercased, with the # stripped and duplicates collapsed.
func ExtractTags(text string) []string {
	matches := tagPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	tags := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		tag := strings.ToLower(m[1])
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

var tagToken = regexp.MustCompile(`^[a-z0-9-]+$`)

// normalizeTag canonicalizes an externally supplied tag (UI form field):
// leading # stripped, lowercased, rejected unless it is a valid tag token.
func normalizeTag(raw string) string {
	tag := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), "#"))
	if !tagToken.MatchString(tag) {
		return ""
	}
	return tag
}

// ExtractURL returns the first http(s) URL in text, or "" when there is none.
// Trailing sentence punctuation is not part of the link.
func ExtractURL(text string) string {
	url := urlPattern.FindString(text)
	return strings.TrimRight(url, ".,;:!?)")
}
