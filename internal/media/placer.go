package media

import (
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/raymee/postforge/internal/storage"
)

// Subdirectory names inside a post directory, created lazily per kind.
const (
	imagesDir = "images"
	videosDir = "videos"
	audioDir  = "audio"
)

// Placer writes resolved media files into one post directory and reports
// the rewritten reference to use in the HTML.
type Placer struct {
	site    *storage.FS
	postRel string // post directory, relative to the site root
	quality int
	maxW    int
	logger  *slog.Logger
}

// NewPlacer creates a Placer for one post directory.
func NewPlacer(site *storage.FS, postRel string, quality, maxWidth int, logger *slog.Logger) *Placer {
	return &Placer{site: site, postRel: postRel, quality: quality, maxW: maxWidth, logger: logger}
}

// Place performs the kind-specific transform for a resolution and returns
// the new reference (relative to the post directory, slash-separated).
// ok is false when the reference must stay untouched: unknown kind, or a
// transcode/copy failure (logged, never fatal).
func (p *Placer) Place(res Resolution) (string, bool) {
	base := filepath.Base(res.Path)
	switch KindOf(res.Ext) {
	case KindImage:
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		dest := path.Join(imagesDir, stem+".webp")
		data, err := EncodeWebP(res.Path, p.quality, p.maxW)
		if err != nil {
			p.logger.Warn("image transcode failed",
				slog.String("source", res.Path), slog.String("error", err.Error()))
			return "", false
		}
		if err := p.site.Write(path.Join(p.postRel, dest), data); err != nil {
			p.logger.Warn("image write failed",
				slog.String("dest", dest), slog.String("error", err.Error()))
			return "", false
		}
		return dest, true
	case KindVideo:
		return p.copyVerbatim(videosDir, base, res.Path)
	case KindAudio:
		return p.copyVerbatim(audioDir, base, res.Path)
	default:
		return "", false
	}
}

func (p *Placer) copyVerbatim(subdir, base, src string) (string, bool) {
	ref := path.Join(subdir, base)
	if err := p.site.CopyFrom(path.Join(p.postRel, ref), src); err != nil {
		p.logger.Warn("media copy failed",
			slog.String("source", src), slog.String("error", err.Error()))
		return "", false
	}
	return ref, true
}
