// registry.go persists the registry graph.
//
// Save writes a registry.Snapshot row by row and Load reads the rows back
// into a Snapshot before handing it to registry.Restore, which rebuilds one
// *Image per id and verifies every Tag/Image relation. Positions are stored
// explicitly because tag order is the file-name encoding order.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jpl-au/imgtag/internal/registry"
)

const (
	metaSchema  = "schema_version"
	metaLastDir = "last_directory"
)

// Save replaces the stored registry with reg in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, reg *registry.Registry) error {
	snap := reg.Snapshot()
	dirty := make(map[registry.ImageID]int, len(snap.Dirty))
	for i, id := range snap.Dirty {
		dirty[id] = i + 1
	}

	return s.Tx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"tag_images", "tags", "version_tags", "versions", "image_tags", "images", "directories", "meta"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES (?, ?), (?, ?)`,
			metaSchema, SchemaVersion, metaLastDir, snap.LastDirectory); err != nil {
			return fmt.Errorf("writing meta: %w", err)
		}

		for dseq, d := range snap.Directories {
			if _, err := tx.ExecContext(ctx, `INSERT INTO directories (seq, path) VALUES (?, ?)`, dseq, d.Path); err != nil {
				return fmt.Errorf("writing directory %s: %w", d.Path, err)
			}
			for pos, img := range d.Images {
				if err := saveImage(ctx, tx, dseq, pos, img, dirty[img.ID]); err != nil {
					return err
				}
			}
		}

		for tseq, t := range snap.Tags {
			if _, err := tx.ExecContext(ctx, `INSERT INTO tags (seq, name) VALUES (?, ?)`, tseq, t.Name); err != nil {
				return fmt.Errorf("writing tag %s: %w", t.Name, err)
			}
			for pos, id := range t.Images {
				if _, err := tx.ExecContext(ctx, `INSERT INTO tag_images (tag, position, image_id) VALUES (?, ?, ?)`,
					t.Name, pos, string(id)); err != nil {
					return fmt.Errorf("writing tag %s: %w", t.Name, err)
				}
			}
		}
		return nil
	})
}

func saveImage(ctx context.Context, tx *sql.Tx, dseq, pos int, img registry.ImageSnapshot, dirty int) error {
	id := string(img.ID)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO images (id, dir_seq, position, base_name, extension, file_path, dirty)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, dseq, pos, img.Base, img.Ext, img.Path, dirty); err != nil {
		return fmt.Errorf("writing image %s: %w", id, err)
	}
	for i, tag := range img.Tags {
		if _, err := tx.ExecContext(ctx, `INSERT INTO image_tags (image_id, position, tag) VALUES (?, ?, ?)`, id, i, tag); err != nil {
			return fmt.Errorf("writing tags of %s: %w", id, err)
		}
	}
	for seq, e := range img.Log {
		if _, err := tx.ExecContext(ctx, `INSERT INTO versions (image_id, seq, created_at) VALUES (?, ?, ?)`,
			id, seq, e.At.UnixNano()); err != nil {
			return fmt.Errorf("writing version %d of %s: %w", seq, id, err)
		}
		for i, tag := range e.Tags {
			if _, err := tx.ExecContext(ctx, `INSERT INTO version_tags (image_id, seq, position, tag) VALUES (?, ?, ?, ?)`,
				id, seq, i, tag); err != nil {
				return fmt.Errorf("writing version %d of %s: %w", seq, id, err)
			}
		}
	}
	return nil
}

// Load rebuilds the stored registry. A database that was never saved
// yields an empty registry.
func (s *SQLiteStore) Load(ctx context.Context) (*registry.Registry, error) {
	var snap registry.Snapshot

	meta, err := s.meta(ctx)
	if err != nil {
		return nil, err
	}
	if v, ok := meta[metaSchema]; ok && v != SchemaVersion {
		return nil, fmt.Errorf("%w: %s", ErrSchema, v)
	}
	snap.LastDirectory = meta[metaLastDir]

	images, err := s.loadImages(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT seq, path FROM directories ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("reading directories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var seq int
		var d registry.DirectorySnapshot
		if err := rows.Scan(&seq, &d.Path); err != nil {
			return nil, fmt.Errorf("scan directory: %w", err)
		}
		d.Images = images.byDir[seq]
		snap.Directories = append(snap.Directories, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	snap.Dirty = images.dirty

	if snap.Tags, err = s.loadTags(ctx); err != nil {
		return nil, err
	}

	reg, err := registry.Restore(snap, nil)
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}
	return reg, nil
}

func (s *SQLiteStore) meta(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM meta`)
	if err != nil {
		return nil, fmt.Errorf("reading meta: %w", err)
	}
	defer rows.Close()

	m := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan meta: %w", err)
		}
		m[k] = v
	}
	return m, rows.Err()
}

type loadedImages struct {
	byDir map[int][]registry.ImageSnapshot
	dirty []registry.ImageID
}

func (s *SQLiteStore) loadImages(ctx context.Context) (loadedImages, error) {
	out := loadedImages{byDir: make(map[int][]registry.ImageSnapshot)}

	current, err := s.groupRows(ctx, `SELECT image_id, tag FROM image_tags ORDER BY image_id, position`)
	if err != nil {
		return out, fmt.Errorf("reading image tags: %w", err)
	}
	logs, err := s.loadVersions(ctx)
	if err != nil {
		return out, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, dir_seq, base_name, extension, file_path, dirty
		FROM images ORDER BY dir_seq, position
	`)
	if err != nil {
		return out, fmt.Errorf("reading images: %w", err)
	}
	defer rows.Close()

	dirtyAt := make(map[int]registry.ImageID)
	for rows.Next() {
		var img registry.ImageSnapshot
		var id string
		var dseq, dirty int
		if err := rows.Scan(&id, &dseq, &img.Base, &img.Ext, &img.Path, &dirty); err != nil {
			return out, fmt.Errorf("scan image: %w", err)
		}
		img.ID = registry.ImageID(id)
		img.Tags = current[id]
		img.Log = logs[id]
		out.byDir[dseq] = append(out.byDir[dseq], img)
		if dirty > 0 {
			dirtyAt[dirty] = img.ID
		}
	}
	if err := rows.Err(); err != nil {
		return out, err
	}
	for i := 1; i <= len(dirtyAt); i++ {
		if id, ok := dirtyAt[i]; ok {
			out.dirty = append(out.dirty, id)
		}
	}
	return out, nil
}

func (s *SQLiteStore) loadVersions(ctx context.Context) (map[string][]registry.EntrySnapshot, error) {
	type key struct {
		id  string
		seq int
	}
	tags := make(map[key][]string)
	rows, err := s.db.QueryContext(ctx, `SELECT image_id, seq, tag FROM version_tags ORDER BY image_id, seq, position`)
	if err != nil {
		return nil, fmt.Errorf("reading version tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var k key
		var tag string
		if err := rows.Scan(&k.id, &k.seq, &tag); err != nil {
			return nil, fmt.Errorf("scan version tag: %w", err)
		}
		tags[k] = append(tags[k], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	vrows, err := s.db.QueryContext(ctx, `SELECT image_id, seq, created_at FROM versions ORDER BY image_id, seq`)
	if err != nil {
		return nil, fmt.Errorf("reading versions: %w", err)
	}
	defer vrows.Close()

	logs := make(map[string][]registry.EntrySnapshot)
	for vrows.Next() {
		var k key
		var at int64
		if err := vrows.Scan(&k.id, &k.seq, &at); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		logs[k.id] = append(logs[k.id], registry.EntrySnapshot{At: time.Unix(0, at), Tags: tags[k]})
	}
	return logs, vrows.Err()
}

func (s *SQLiteStore) loadTags(ctx context.Context) ([]registry.TagSnapshot, error) {
	refs, err := s.groupRows(ctx, `SELECT tag, image_id FROM tag_images ORDER BY tag, position`)
	if err != nil {
		return nil, fmt.Errorf("reading tag references: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM tags ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("reading tags: %w", err)
	}
	defer rows.Close()

	var out []registry.TagSnapshot
	for rows.Next() {
		var t registry.TagSnapshot
		if err := rows.Scan(&t.Name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		for _, id := range refs[t.Name] {
			t.Images = append(t.Images, registry.ImageID(id))
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// groupRows runs a two-column query and groups the second column by the
// first, keeping row order.
func (s *SQLiteStore) groupRows(ctx context.Context, q string) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := make(map[string][]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		m[k] = append(m[k], v)
	}
	return m, rows.Err()
}
