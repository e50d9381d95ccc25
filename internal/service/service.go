// Package service defines the shared interface for catalogue operations.
// Commands, extensions and the MCP server depend on this interface rather
// than on the concrete catalog implementation.
package service

import (
	"context"
	"database/sql"
	"io"
	"time"

	"github.com/jpl-au/imgtag/internal/ingest"
	"github.com/jpl-au/imgtag/internal/store"
	"github.com/jpl-au/imgtag/internal/sync"
)

// Service defines all catalogue operations.
//
// Use catalog.New() to obtain an implementation and always defer Close().
// Every mutating call commits before it returns: dirty images are renamed
// on disk and the registry is saved, so a process that exits between calls
// loses nothing.
//
// Image references accept an image ID, a file path, or "dir/baseName".
// Unknown references return validate.ErrNotFound.
//
// Example:
//
//	svc, err := catalog.New("")
//	if err != nil {
//	    return err
//	}
//	defer svc.Close()
//	img, err := svc.AddTags(ctx, "holiday/beach.jpg", "sea")
type Service interface {
	// Close checkpoints the WAL and releases the database.
	Close() error

	// DB exposes the database for extensions needing custom tables.
	DB() *sql.DB

	// Ingest walks root and registers every image below it. Tags parsed
	// from file names are created as needed. On an I/O error nothing is
	// registered.
	Ingest(ctx context.Context, w io.Writer, root string, opts ingest.Options) (ingest.Result, error)

	// LastDirectory returns the most recently ingested root.
	LastDirectory(ctx context.Context) string

	// Directories lists every directory index in creation order.
	Directories(ctx context.Context) []Directory

	// Images lists the images anchored at dir, or every image when dir is
	// empty. Returns validate.ErrNotFound for an unknown directory.
	Images(ctx context.Context, dir string) ([]Image, error)

	// Resolve returns the image a reference names.
	Resolve(ctx context.Context, ref string) (Image, error)

	// Tags lists every tag with its image count.
	Tags(ctx context.Context) []TagInfo

	// CreateTag registers a tag without attaching it to an image.
	// Returns validate.ErrInvalidTagName for invalid names.
	CreateTag(ctx context.Context, name string) (TagInfo, error)

	// TaggedImages lists the images carrying a tag.
	// Returns validate.ErrTagNotFound for unknown tags.
	TaggedImages(ctx context.Context, name string) ([]Image, error)

	// AddTags attaches tags to an image, creating unknown tags. Tags the
	// image already carries are skipped. An invalid name aborts before
	// anything changes.
	AddTags(ctx context.Context, ref string, names ...string) (Image, error)

	// RemoveTags detaches tags from an image. Tags the image does not carry
	// are skipped and record no version.
	RemoveTags(ctx context.Context, ref string, names ...string) (Image, error)

	// RemoveAllTags clears every tag of an image as one version.
	RemoveAllTags(ctx context.Context, ref string) (Image, error)

	// DeleteTag removes a tag from the store and from every image carrying
	// it, returning the affected images.
	DeleteTag(ctx context.Context, name string) ([]Image, error)

	// Move relocates an image into another existing directory.
	Move(ctx context.Context, ref, dir string) (Image, error)

	// Revert restores the tag set recorded at index in the image's version log.
	// Returns validate.ErrIndexOutOfRange for indexes outside the log.
	Revert(ctx context.Context, ref string, index int) (Image, error)

	// History returns every recorded version of an image, oldest first.
	History(ctx context.Context, ref string) ([]Version, error)

	// NameHistory returns one "timestamp: name" line per version.
	NameHistory(ctx context.Context, ref string) ([]string, error)

	// ChangeLog returns one "timestamp: old -> new" line per transition.
	ChangeLog(ctx context.Context, ref string) ([]string, error)

	// Flush renames every pending image. Failed renames stay pending and
	// their errors are joined.
	Flush(ctx context.Context, w io.Writer) (sync.Result, error)

	// Pending lists images whose file name does not match their tags yet.
	Pending(ctx context.Context) []Image

	// Reload discards in-memory state and reloads the registry from storage.
	Reload(ctx context.Context) error

	// Stats returns aggregate counts for the stored registry.
	Stats(ctx context.Context) (*store.Stats, error)

	// Vacuum compacts the database file.
	Vacuum(ctx context.Context) error
}

// Image is a read-only view of a registered image.
type Image struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"` // canonical file name
	Base     string   `json:"base" yaml:"base"`
	Ext      string   `json:"ext" yaml:"ext"`
	Dir      string   `json:"dir" yaml:"dir"`
	Path     string   `json:"path" yaml:"path"` // file on disk
	Tags     []string `json:"tags" yaml:"tags"`
	Versions int      `json:"versions" yaml:"versions"`
	Pending  bool     `json:"pending,omitempty" yaml:"pending,omitempty"`
}

// Directory is a read-only view of a directory index.
type Directory struct {
	Path   string `json:"path" yaml:"path"`
	Name   string `json:"name" yaml:"name"`
	Images int    `json:"images" yaml:"images"`
}

// TagInfo is a tag with the number of images carrying it.
type TagInfo struct {
	Name   string `json:"name" yaml:"name"`
	Images int    `json:"images" yaml:"images"`
}

// Version is one entry of an image's version log.
type Version struct {
	Index int       `json:"index" yaml:"index"`
	At    time.Time `json:"at" yaml:"at"`
	Name  string    `json:"name" yaml:"name"` // file name the tags encode
	Tags  []string  `json:"tags" yaml:"tags"`
}
