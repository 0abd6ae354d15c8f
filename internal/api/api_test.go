package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/raymee/postforge/internal/index"
	"github.com/raymee/postforge/internal/meta"
)

func testIndex() *meta.Index {
	ix := meta.Load(nil)
	ix.Append(meta.Post{ID: 1, Title: "Old", Slug: "old",
		Date: "2025-01-01T00:00:00Z", Path: "data/BlogData/1/index.html", Published: true})
	ix.Append(meta.Post{ID: 2, Title: "Hidden", Slug: "hidden",
		Date: "2025-02-01T00:00:00Z", Published: false})
	ix.Append(meta.Post{ID: 3, Title: "New", Slug: "new",
		Date: "2025-03-01T00:00:00Z", Path: "data/BlogData/3/index.html", Published: true})
	return ix
}

func testServer(t *testing.T, search index.PostIndex) *httptest.Server {
	t.Helper()
	ix := testIndex()
	srv := httptest.NewServer(NewRouter(t.TempDir(), func() *meta.Index { return ix }, search))
	t.Cleanup(srv.Close)
	return srv
}

func TestListPosts(t *testing.T) {
	srv := testServer(t, nil)
	resp, err := http.Get(srv.URL + "/api/posts")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var posts []meta.Post
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		t.Fatal(err)
	}
	if len(posts) != 2 {
		t.Fatalf("posts = %d, want 2 published", len(posts))
	}
	if posts[0].ID != 3 || posts[1].ID != 1 {
		t.Errorf("order = [%d %d], want newest first", posts[0].ID, posts[1].ID)
	}
}

func TestGetPost(t *testing.T) {
	srv := testServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/posts/1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var p meta.Post
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	if p.Slug != "old" {
		t.Errorf("slug = %q", p.Slug)
	}
}

func TestGetPost_NotFound(t *testing.T) {
	srv := testServer(t, nil)
	resp, err := http.Get(srv.URL + "/api/posts/99")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestGetPost_BadID(t *testing.T) {
	srv := testServer(t, nil)
	resp, err := http.Get(srv.URL + "/api/posts/abc")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSearch_Disabled(t *testing.T) {
	srv := testServer(t, nil)
	resp, err := http.Get(srv.URL + "/api/search?q=x")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestSearch_MissingQuery(t *testing.T) {
	srv := testServer(t, stubIndex{})
	resp, err := http.Get(srv.URL + "/api/search")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSearch(t *testing.T) {
	srv := testServer(t, stubIndex{hits: []index.SearchResult{
		{ID: 3, Slug: "new", Title: "New", Snippet: "a <b>hit</b>"},
	}})
	resp, err := http.Get(srv.URL + "/api/search?q=hit")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var hits []searchHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Slug != "new" {
		t.Errorf("hits = %+v", hits)
	}
}

// stubIndex is a canned PostIndex for handler tests.
type stubIndex struct {
	hits []index.SearchResult
}

func (s stubIndex) UpsertPost(index.PostRow, string, []int) error { return nil }
func (s stubIndex) DeletePost(int) error                          { return nil }
func (s stubIndex) AllChecksums() (map[int]string, error)         { return nil, nil }
func (s stubIndex) Close() error                                  { return nil }
func (s stubIndex) Search(string, int) ([]index.SearchResult, error) {
	return s.hits, nil
}
