package sitemap

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/raymee/postforge/internal/meta"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

type parsedSet struct {
	URLs []struct {
		Loc        string `xml:"loc"`
		LastMod    string `xml:"lastmod"`
		ChangeFreq string `xml:"changefreq"`
		Priority   string `xml:"priority"`
	} `xml:"url"`
}

func render(t *testing.T, ix *meta.Index) parsedSet {
	t.Helper()
	data, err := Render(ix, "https://example.test/site/", testNow)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	var set parsedSet
	if err := xml.Unmarshal(data, &set); err != nil {
		t.Fatalf("output is not valid xml: %v\n%s", err, data)
	}
	return set
}

func TestRender_TopLevelOnly(t *testing.T) {
	set := render(t, meta.Load(nil))
	if len(set.URLs) != 2 {
		t.Fatalf("urls = %d, want 2", len(set.URLs))
	}
	if set.URLs[0].Loc != "https://example.test/site/" {
		t.Errorf("loc = %q", set.URLs[0].Loc)
	}
	if set.URLs[0].Priority != "1.0" || set.URLs[0].ChangeFreq != "weekly" {
		t.Errorf("top-level entry = %+v", set.URLs[0])
	}
	if set.URLs[0].LastMod != "2025-06-15" {
		t.Errorf("lastmod = %q", set.URLs[0].LastMod)
	}
}

func TestRender_PostsSortedAndFiltered(t *testing.T) {
	ix := meta.Load(nil)
	ix.Append(meta.Post{ID: 1, Date: "2025-01-01T00:00:00Z", Path: "data/BlogData/1/index.html", Published: true})
	ix.Append(meta.Post{ID: 2, Date: "2025-05-01T00:00:00Z", Path: "data/BlogData/2/index.html", Published: true})
	ix.Append(meta.Post{ID: 3, Date: "2025-03-01T00:00:00Z", Path: "data/BlogData/3/index.html", Published: false})

	set := render(t, ix)
	if len(set.URLs) != 4 {
		t.Fatalf("urls = %d, want 2 top-level + 2 published", len(set.URLs))
	}
	if !strings.HasSuffix(set.URLs[2].Loc, "/2/index.html") {
		t.Errorf("newest post should come first, got %q", set.URLs[2].Loc)
	}
	if set.URLs[2].Priority != "0.8" || set.URLs[2].ChangeFreq != "monthly" {
		t.Errorf("post entry = %+v", set.URLs[2])
	}
	if set.URLs[2].LastMod != "2025-05-01" {
		t.Errorf("lastmod = %q", set.URLs[2].LastMod)
	}
}

func TestRender_BadDateFallsBackToNow(t *testing.T) {
	ix := meta.Load(nil)
	ix.Append(meta.Post{ID: 1, Date: "not-a-date", Path: "p", Published: true})
	set := render(t, ix)
	if set.URLs[2].LastMod != "2025-06-15" {
		t.Errorf("lastmod = %q, want today's date", set.URLs[2].LastMod)
	}
}

func TestRender_HasXMLHeaderAndNamespace(t *testing.T) {
	data, err := Render(meta.Load(nil), "https://example.test/", testNow)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.HasPrefix(s, xml.Header) {
		t.Error("missing xml declaration")
	}
	if !strings.Contains(s, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`) {
		t.Error("missing sitemap namespace")
	}
}
