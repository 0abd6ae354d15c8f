package index

import (
	"encoding/json"
	"fmt"
)

// PostRow represents a row in the posts table.
type PostRow struct {
	ID       int
	Slug     string
	Title    string
	Summary  string
	Date     string
	Path     string
	Checksum string
}

// SearchResult represents one search hit.
type SearchResult struct {
	ID      int
	Slug    string
	Title   string
	Snippet string
}

// UpsertPost inserts or replaces a post row and its FTS entry within a
// transaction.
func (db *DB) UpsertPost(p PostRow, body string, tags []int) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	tagsJSON, _ := json.Marshal(tags)

	// Body is stored in the posts table for fallback search.
	_, err = tx.Exec(`
		INSERT INTO posts (id, slug, title, summary, date, path, checksum, tags, body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			slug     = excluded.slug,
			title    = excluded.title,
			summary  = excluded.summary,
			date     = excluded.date,
			path     = excluded.path,
			checksum = excluded.checksum,
			tags     = excluded.tags,
			body     = excluded.body
	`, p.ID, p.Slug, p.Title, p.Summary, p.Date, p.Path, p.Checksum, string(tagsJSON), body)
	if err != nil {
		return fmt.Errorf("index: upsert post: %w", err)
	}

	// FTS upsert (no-op when the FTS5 tag is absent).
	if err := ftsUpsert(tx, p.ID, p.Title, body, tags); err != nil {
		return err
	}

	return tx.Commit()
}

// DeletePost removes a post row and its FTS entry.
func (db *DB) DeletePost(id int) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, id)
	_, _ = tx.Exec(`DELETE FROM posts WHERE id = ?`, id)

	return tx.Commit()
}

// AllChecksums returns the stored checksum for every indexed post.
func (db *DB) AllChecksums() (map[int]string, error) {
	rows, err := db.conn.Query(`SELECT id, checksum FROM posts`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[int]string)
	for rows.Next() {
		var id int
		var cs string
		if err := rows.Scan(&id, &cs); err != nil {
			return nil, err
		}
		out[id] = cs
	}
	return out, rows.Err()
}
