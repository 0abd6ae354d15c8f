// Package meta models the posts.json index document: the ordered list of
// ingested post records plus the last-assigned-id counter.
package meta

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/raymee/postforge/internal/apperr"
)

// Post is one committed record in the index. Field order matches the
// document the site front-end already consumes.
type Post struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Date      string `json:"date"` // RFC 3339, UTC, fixed at ingestion
	Path      string `json:"path"` // slash-separated, relative to the site root
	Summary   string `json:"summary"`
	Tags      []int  `json:"tags"`
	Published bool   `json:"published"`
}

// Index is the persisted metadata document. Posts keep insertion order.
type Index struct {
	LastID int    `json:"lastId"`
	Posts  []Post `json:"posts"`
}

// Load parses an index document. Missing or malformed input yields the
// empty index rather than an error; the document is rebuilt over time from
// committed records, so a corrupt file must not fail a run.
func Load(data []byte) *Index {
	ix := &Index{Posts: []Post{}}
	if len(data) == 0 {
		return ix
	}
	var parsed Index
	if err := json.Unmarshal(data, &parsed); err != nil {
		return ix
	}
	if parsed.Posts == nil {
		parsed.Posts = []Post{}
	}
	return &parsed
}

// Marshal renders the document with two-space indentation, stable key
// order, and non-ASCII preserved, matching what the front-end fetches.
func (ix *Index) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ix); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NextID returns the identifier the next committed record will take.
// The counter itself only advances in Append.
func (ix *Index) NextID() int { return ix.LastID + 1 }

// Append commits a record and advances the counter to its id.
func (ix *Index) Append(p Post) {
	if p.Tags == nil {
		p.Tags = []int{}
	}
	ix.Posts = append(ix.Posts, p)
	ix.LastID = p.ID
}

// Find returns the record with the given id, or apperr.ErrNotFound.
func (ix *Index) Find(id int) (*Post, error) {
	for i := range ix.Posts {
		if ix.Posts[i].ID == id {
			return &ix.Posts[i], nil
		}
	}
	return nil, apperr.ErrNotFound
}

// PublishedByDateDesc returns the published records, newest first.
// Ties keep insertion order.
func (ix *Index) PublishedByDateDesc() []Post {
	out := make([]Post, 0, len(ix.Posts))
	for _, p := range ix.Posts {
		if p.Published {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// Slugify converts a title to a URL-safe slug: lowercased, runs of
// non-alphanumeric characters collapsed to a single hyphen, leading and
// trailing hyphens trimmed.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// SlugForPost derives the record slug, falling back to the stringified id
// when the title slugifies to nothing.
func SlugForPost(title string, id int) string {
	if s := Slugify(title); s != "" {
		return s
	}
	return strconv.Itoa(id)
}
