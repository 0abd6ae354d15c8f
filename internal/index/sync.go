package index

import (
	"log/slog"

	"github.com/raymee/postforge/internal/checksum"
	"github.com/raymee/postforge/internal/meta"
	"github.com/raymee/postforge/internal/parser"
	"github.com/raymee/postforge/internal/storage"
)

// Sync brings the search index up to date with the metadata document:
//   - new or changed posts are read from the site tree and upserted
//   - rows whose ids no longer appear in the document are deleted
//
// Per-post failures are logged and skipped; the index is best-effort
// derived data.
func Sync(db *DB, site *storage.FS, ix *meta.Index, logger *slog.Logger) error {
	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	live := make(map[int]struct{}, len(ix.Posts))
	for _, p := range ix.Posts {
		live[p.ID] = struct{}{}

		data, err := site.Read(p.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", p.Path), slog.String("error", err.Error()))
			continue
		}
		cs := checksum.Sum(data)
		if checksums[p.ID] == cs {
			continue
		}

		row := PostRow{
			ID:       p.ID,
			Slug:     p.Slug,
			Title:    p.Title,
			Summary:  p.Summary,
			Date:     p.Date,
			Path:     p.Path,
			Checksum: cs,
		}
		if err := db.UpsertPost(row, parser.StripTags(string(data)), p.Tags); err != nil {
			logger.Warn("sync: index failed", slog.Int("id", p.ID), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.Int("id", p.ID))
		}
	}

	// Remove stale entries.
	for id := range checksums {
		if _, ok := live[id]; !ok {
			if err := db.DeletePost(id); err != nil {
				logger.Warn("sync: delete failed", slog.Int("id", id), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.Int("id", id))
			}
		}
	}

	return nil
}
