// Package sitemap renders sitemap.xml from the metadata index. Pure
// formatting: it never touches the filesystem.
package sitemap

import (
	"encoding/xml"
	"time"

	"github.com/raymee/postforge/internal/meta"
)

const (
	xmlns       = "http://www.sitemaps.org/schemas/sitemap/0.9"
	dateLayout  = "2006-01-02"
	topPriority = "1.0"
	postPrio    = "0.8"
)

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	XMLNS   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Render produces the sitemap document: the two fixed top-level URLs
// followed by one entry per published post, newest first. baseURL must end
// with a slash; now supplies lastmod for the top-level pages and for
// records whose date does not parse.
func Render(ix *meta.Index, baseURL string, now time.Time) ([]byte, error) {
	today := now.Format(dateLayout)

	urls := []urlEntry{
		{Loc: baseURL, LastMod: today, ChangeFreq: "weekly", Priority: topPriority},
		{Loc: baseURL + "index.html", LastMod: today, ChangeFreq: "weekly", Priority: topPriority},
	}

	for _, p := range ix.PublishedByDateDesc() {
		lastmod := today
		if ts, err := time.Parse(time.RFC3339, p.Date); err == nil {
			lastmod = ts.Format(dateLayout)
		}
		urls = append(urls, urlEntry{
			Loc:        baseURL + p.Path,
			LastMod:    lastmod,
			ChangeFreq: "monthly",
			Priority:   postPrio,
		})
	}

	body, err := xml.MarshalIndent(urlSet{XMLNS: xmlns, URLs: urls}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}
