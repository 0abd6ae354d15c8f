// Package ingest drives the normalization pipeline: discovering raw source
// items, rewriting their HTML, placing media, appending index records, and
// archiving consumed sources.
package ingest

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/raymee/postforge/internal/apperr"
	"github.com/raymee/postforge/internal/media"
	"github.com/raymee/postforge/internal/meta"
	"github.com/raymee/postforge/internal/parser"
	"github.com/raymee/postforge/internal/rewrite"
	"github.com/raymee/postforge/internal/storage"
)

// Pipeline holds everything one ingestion run needs. It is single-pass and
// synchronous; the index is mutated in memory and persisted by the caller.
type Pipeline struct {
	SourceRoot  string      // absolute path scanned for raw items
	ArchiveName string      // subdirectory of SourceRoot, excluded from discovery
	Site        *storage.FS // rooted at the static site tree
	PostsRel    string      // posts directory relative to the site root, slash-separated
	BaseURL     string      // public base URL with trailing slash
	Quality     int
	MaxWidth    int
	Logger      *slog.Logger
	Now         func() time.Time // defaults to time.Now
}

// primaryNames is the preference order for an item's root HTML document.
var primaryNames = []string{"index.html", "home.html", "Index.html", "Home.html"}

// Run processes every discovered item in lexical order and returns the
// number of successfully ingested posts. Item failures are logged and
// skipped; only infrastructure errors (an unreadable source root) fail the
// run.
func (p *Pipeline) Run(ix *meta.Index) (int, error) {
	items, err := p.discover()
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		p.Logger.Info("no raw items to process")
		return 0, nil
	}

	ingested := 0
	for _, item := range items {
		post, err := p.processItem(item, ix)
		if err != nil {
			if err == apperr.ErrNoHTML {
				p.Logger.Info("no html document found, skipping item",
					slog.String("item", item))
			} else {
				p.Logger.Error("item failed",
					slog.String("item", item), slog.String("error", err.Error()))
			}
			continue
		}
		ingested++
		p.Logger.Info("ingested",
			slog.String("item", item),
			slog.Int("id", post.ID),
			slog.String("slug", post.Slug))
	}
	return ingested, nil
}

// discover lists the immediate children of the source root, excluding the
// archive subdirectory, in lexical order. A missing source root is not an
// error: there is simply nothing to do.
func (p *Pipeline) discover() ([]string, error) {
	entries, err := os.ReadDir(p.SourceRoot)
	if err != nil {
		if os.IsNotExist(err) {
			p.Logger.Info("source root does not exist, nothing to do",
				slog.String("root", p.SourceRoot))
			return nil, nil
		}
		return nil, fmt.Errorf("ingest: read source root: %w", err)
	}
	var items []string
	for _, e := range entries {
		if e.Name() == p.ArchiveName {
			continue
		}
		items = append(items, filepath.Join(p.SourceRoot, e.Name()))
	}
	return items, nil
}

// processItem runs the per-item state machine: locate the primary HTML,
// assign the id, extract front matter, rewrite media references, write the
// post directory, append the record, archive the source. The id is taken
// from the in-memory counter before any file I/O; the counter itself only
// advances when the record is appended, so a mid-item failure consumes
// nothing.
func (p *Pipeline) processItem(item string, ix *meta.Index) (meta.Post, error) {
	htmlPath, ok := findPrimaryHTML(item)
	if !ok {
		return meta.Post{}, apperr.ErrNoHTML
	}

	raw, err := os.ReadFile(htmlPath)
	if err != nil {
		return meta.Post{}, fmt.Errorf("ingest: read %s: %w", htmlPath, err)
	}
	doc := string(raw)

	id := ix.NextID()
	docName := filepath.Base(htmlPath)
	postRel := path.Join(p.PostsRel, strconv.Itoa(id))
	publicPath := path.Join(postRel, docName)

	stem := strings.TrimSuffix(docName, filepath.Ext(docName))
	fm := parser.Extract(doc, stem)

	resolver := media.NewResolver(filepath.Dir(htmlPath), item)
	placer := media.NewPlacer(p.Site, postRel, p.Quality, p.MaxWidth, p.Logger)

	doc = rewrite.MediaSources(doc, func(ref string) (string, bool) {
		if media.External(ref) {
			return "", false
		}
		res, found := resolver.Resolve(ref)
		if !found {
			p.Logger.Warn("media reference not found, leaving untouched",
				slog.String("ref", ref), slog.String("item", item))
			return "", false
		}
		return placer.Place(res)
	})
	doc = rewrite.Canonical(doc, p.BaseURL+publicPath)

	if err := p.Site.Write(publicPath, []byte(doc)); err != nil {
		return meta.Post{}, fmt.Errorf("ingest: write post document: %w", err)
	}

	p.copyAssets(item, postRel, docName)

	post := meta.Post{
		ID:        id,
		Title:     fm.Title,
		Slug:      meta.SlugForPost(fm.Title, id),
		Date:      p.now().UTC().Format(time.RFC3339),
		Path:      publicPath,
		Summary:   fm.Summary,
		Tags:      fm.Tags,
		Published: true,
	}
	ix.Append(post)

	p.archive(item, id)
	return post, nil
}

// copyAssets copies the item's top-level non-media, non-HTML files into
// the post directory verbatim. Media files are excluded: referenced ones
// were already placed, unreferenced ones stay behind in the archive.
func (p *Pipeline) copyAssets(item, postRel, docName string) {
	entries, err := os.ReadDir(item)
	if err != nil {
		// Single-file items have no sidecar assets.
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext == ".html" || ext == ".htm" || name == docName {
			continue
		}
		if media.KindOf(ext) != media.KindUnknown {
			continue
		}
		if err := p.Site.CopyFrom(path.Join(postRel, name), filepath.Join(item, name)); err != nil {
			p.Logger.Warn("asset copy failed",
				slog.String("asset", name), slog.String("error", err.Error()))
		}
	}
}

// archive moves the consumed item under the archive directory with a
// .processed.<id> suffix. The record is already committed, so a failed
// move only warns; the source stays in place and the operator resolves it.
func (p *Pipeline) archive(item string, id int) {
	dir := filepath.Join(p.SourceRoot, p.ArchiveName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		p.Logger.Warn("archive dir create failed", slog.String("error", err.Error()))
		return
	}
	dest := filepath.Join(dir, fmt.Sprintf("%s.processed.%d", filepath.Base(item), id))
	if err := os.Rename(item, dest); err != nil {
		p.Logger.Warn("failed to archive processed item",
			slog.String("item", item), slog.String("error", err.Error()))
	}
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// findPrimaryHTML locates an item's root HTML document. Single HTML files
// are their own document; directories are probed by preference order, then
// by the first *.html in lexical order.
func findPrimaryHTML(item string) (string, bool) {
	info, err := os.Stat(item)
	if err != nil {
		return "", false
	}
	if !info.IsDir() {
		if strings.EqualFold(filepath.Ext(item), ".html") {
			return item, true
		}
		return "", false
	}
	for _, name := range primaryNames {
		p := filepath.Join(item, name)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, true
		}
	}
	entries, err := os.ReadDir(item)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".html") {
			return filepath.Join(item, e.Name()), true
		}
	}
	return "", false
}
