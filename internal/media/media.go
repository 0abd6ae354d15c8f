// Package media locates referenced media files inside raw source items and
// places them into a post directory, transcoding images to webp and
// copying video and audio verbatim.
package media

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Kind classifies a media reference by extension.
type Kind int

const (
	KindUnknown Kind = iota
	KindImage
	KindVideo
	KindAudio
)

// Extension lists per kind, in the order the data-dir stem search probes
// them. Only raster formats the codec can decode count as images; svg and
// friends fall through to the plain-asset copy.
var (
	imageExts = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".webp"}
	videoExts = []string{".mp4", ".webm", ".mov", ".m4v"}
	audioExts = []string{".mp3", ".wav", ".ogg", ".m4a", ".flac"}
)

// KindOf classifies a file extension (with leading dot, any case).
func KindOf(ext string) Kind {
	ext = strings.ToLower(ext)
	switch {
	case contains(imageExts, ext):
		return KindImage
	case contains(videoExts, ext):
		return KindVideo
	case contains(audioExts, ext):
		return KindAudio
	default:
		return KindUnknown
	}
}

func contains(exts []string, ext string) bool {
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}

// allExts returns every supported extension in probe order:
// images, then videos, then audio.
func allExts() []string {
	out := make([]string, 0, len(imageExts)+len(videoExts)+len(audioExts))
	out = append(out, imageExts...)
	out = append(out, videoExts...)
	out = append(out, audioExts...)
	return out
}

// External reports whether a reference is scheme-prefixed or
// protocol-relative. External references are never resolved locally.
func External(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(ref, "//")
}

// Resolution is a successful lookup: an existing file plus the extension
// to classify it by. Ext may differ from the reference's nominal extension
// when the file was found by stem search.
type Resolution struct {
	Path string
	Ext  string
}

// Resolver locates the on-disk file behind a media reference found in one
// HTML document.
type Resolver struct {
	docDir   string // directory containing the HTML document
	itemRoot string // the source item's own root

	dataDirs       []string // directories named "data" anywhere under itemRoot
	dataDirsLoaded bool
}

// NewResolver creates a Resolver for one document within one source item.
func NewResolver(docDir, itemRoot string) *Resolver {
	return &Resolver{docDir: docDir, itemRoot: itemRoot}
}

// Resolve tries, in order: stem search across data directories under the
// item (every supported extension, fixed order), the reference relative to
// the document directory, then relative to the item root. Returns false if
// nothing exists. External references must be filtered by the caller with
// External before resolving.
func (r *Resolver) Resolve(ref string) (Resolution, bool) {
	local := filepath.FromSlash(ref)

	stem := strings.TrimSuffix(path.Base(ref), path.Ext(ref))
	for _, dir := range r.findDataDirs() {
		for _, ext := range allExts() {
			candidate := filepath.Join(dir, stem+ext)
			if fileExists(candidate) {
				return Resolution{Path: candidate, Ext: ext}, true
			}
		}
	}

	if p := filepath.Join(r.docDir, local); fileExists(p) {
		return Resolution{Path: p, Ext: strings.ToLower(path.Ext(ref))}, true
	}
	if p := filepath.Join(r.itemRoot, local); fileExists(p) {
		return Resolution{Path: p, Ext: strings.ToLower(path.Ext(ref))}, true
	}
	return Resolution{}, false
}

// findDataDirs walks the item once, lazily, collecting directories named
// exactly "data".
func (r *Resolver) findDataDirs() []string {
	if r.dataDirsLoaded {
		return r.dataDirs
	}
	r.dataDirsLoaded = true
	_ = filepath.WalkDir(r.itemRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtrees just yield no candidates
		}
		if d.IsDir() && d.Name() == "data" {
			r.dataDirs = append(r.dataDirs, p)
		}
		return nil
	})
	return r.dataDirs
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
