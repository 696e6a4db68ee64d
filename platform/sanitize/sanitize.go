// Package sanitize strips markup from admin-entered catalog text before it is
// stored and rendered on the storefront.
package sanitize

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var whitespaceRegex = regexp.MustCompile(`[ \t\x{00a0}]+`)

// StripHTML keeps only the text content of s. Entities are decoded by the
// first pass, so a second pass removes tags that arrived encoded.
func StripHTML(s string) string {
	return strings.TrimSpace(textContent(textContent(s)))
}

func textContent(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

// Text strips markup and collapses runs of spaces. Line breaks are kept.
func Text(s string) string {
	return whitespaceRegex.ReplaceAllString(StripHTML(s), " ")
}

// TextPtr is Text for optional fields.
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	result := Text(*s)
	return &result
}

// Tags cleans a tag list: markup stripped, blanks dropped, duplicates removed
// case-insensitively with the first spelling kept.
func Tags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		clean := Text(tag)
		if clean == "" {
			continue
		}
		key := strings.ToLower(clean)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, clean)
	}
	return out
}
