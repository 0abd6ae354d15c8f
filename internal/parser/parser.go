// Package parser extracts front matter (title, description, summary, tags)
// from raw HTML using tolerant pattern matching. Missing markers never
// produce errors, only fallbacks.
package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// summaryLimit caps the first-paragraph fallback summary, in runes.
const summaryLimit = 200

var (
	titleRe    = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	descRe     = regexp.MustCompile(`(?is)<meta[^>]+name=["']description["'][^>]*content=["']([^"']*)["']`)
	paraRe     = regexp.MustCompile(`(?is)<p[^>]*>(.*?)</p>`)
	tagsMetaRe = regexp.MustCompile(`(?is)<meta[^>]+name=["']tags?["'][^>]*content=["']([^"']*)["']`)
	tagSplitRe = regexp.MustCompile(`[\s,/]+`)
	anyTagRe   = regexp.MustCompile(`(?s)<[^>]*>`)
)

// Result holds the front matter extracted from one HTML document.
type Result struct {
	Title       string
	Description string
	Summary     string
	Tags        []int
}

// Extract pulls front matter out of html. fallbackTitle is used when the
// document carries no <title> element (callers pass the source filename
// without extension).
func Extract(html, fallbackTitle string) *Result {
	title := firstMatch(html, titleRe)
	if title == "" {
		title = fallbackTitle
	}

	desc := firstMatch(html, descRe)

	summary := desc
	if summary == "" {
		summary = truncate(StripTags(firstMatch(html, paraRe)), summaryLimit)
	}

	return &Result{
		Title:       title,
		Description: desc,
		Summary:     summary,
		Tags:        extractTags(html),
	}
}

// StripTags removes all markup from an HTML fragment and trims the result.
func StripTags(fragment string) string {
	return strings.TrimSpace(anyTagRe.ReplaceAllString(fragment, ""))
}

func firstMatch(html string, re *regexp.Regexp) string {
	m := re.FindStringSubmatch(html)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// extractTags collects every tags/tag meta element's content, splits on
// slash, comma, and whitespace, and keeps integer tokens only. Duplicates
// are collapsed, first-occurrence order preserved.
func extractTags(html string) []int {
	seen := make(map[int]struct{})
	out := []int{}
	for _, m := range tagsMetaRe.FindAllStringSubmatch(html, -1) {
		for _, tok := range tagSplitRe.Split(m[1], -1) {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			n, err := strconv.Atoi(tok)
			if err != nil {
				// Non-integer tags are a leftover from the free-form
				// era; drop them silently.
				continue
			}
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
