// Package rewrite performs scoped substitutions on raw HTML text: media
// source attributes and the canonical link. Only attribute values change;
// every other byte of the document is preserved.
package rewrite

import (
	"regexp"
)

var (
	mediaTagRe = regexp.MustCompile(`(?is)<(?:img|source|video|audio)\b[^>]*>`)
	// The attribute name must follow whitespace or a quote so that look-alikes
	// such as data-src or xlink:href never match.
	srcAttrRe = regexp.MustCompile(`(?is)(?:^|[\s"'])src\s*=\s*(?:"([^"]*)"|'([^']*)')`)

	canonicalRe = regexp.MustCompile(`(?is)<link\b[^>]*rel\s*=\s*["']canonical["'][^>]*>`)
	hrefAttrRe  = regexp.MustCompile(`(?is)(?:^|[\s"'])href\s*=\s*(?:"([^"]*)"|'([^']*)')`)
	headOpenRe  = regexp.MustCompile(`(?i)<head\b[^>]*>`)
)

// SourceFunc maps a media reference to its replacement. ok=false leaves
// the reference byte-for-byte untouched.
type SourceFunc func(ref string) (string, bool)

// MediaSources rewrites the src attribute of every img, source, video, and
// audio tag in doc through fn. Substitution is scoped to the attribute
// value inside each tag's own text, so identical substrings elsewhere in
// the document are never corrupted.
func MediaSources(doc string, fn SourceFunc) string {
	return mediaTagRe.ReplaceAllStringFunc(doc, func(tag string) string {
		return replaceAttr(tag, srcAttrRe, fn)
	})
}

// Canonical rewrites the document's canonical link href to url. When no
// canonical link exists, one is inserted immediately after the opening
// head element; a document without a head is left unchanged.
func Canonical(doc, url string) string {
	if loc := canonicalRe.FindStringIndex(doc); loc != nil {
		tag := doc[loc[0]:loc[1]]
		replaced := replaceAttr(tag, hrefAttrRe, func(string) (string, bool) { return url, true })
		if replaced == tag {
			// Canonical link without an href: replace the whole tag.
			replaced = `<link rel="canonical" href="` + url + `">`
		}
		return doc[:loc[0]] + replaced + doc[loc[1]:]
	}
	if loc := headOpenRe.FindStringIndex(doc); loc != nil {
		return doc[:loc[1]] + "\n  <link rel=\"canonical\" href=\"" + url + "\">" + doc[loc[1]:]
	}
	return doc
}

// replaceAttr runs fn over the first quoted attribute value matched by re
// within tag and splices the result in place, leaving the rest of the tag
// untouched.
func replaceAttr(tag string, re *regexp.Regexp, fn SourceFunc) string {
	m := re.FindStringSubmatchIndex(tag)
	if m == nil {
		return tag
	}
	// Group 1 is the double-quoted value, group 2 the single-quoted one.
	start, end := m[2], m[3]
	if start < 0 {
		start, end = m[4], m[5]
	}
	if start < 0 {
		return tag
	}
	old := tag[start:end]
	if old == "" {
		return tag
	}
	newVal, ok := fn(old)
	if !ok {
		return tag
	}
	return tag[:start] + newVal + tag[end:]
}
