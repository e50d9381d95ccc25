// image.go defines Image, the in-memory identity of one picture file.
//
// An Image's identity is its base name plus directory. Tags, file path and
// history are state, not identity: retagging renames the file but never
// makes a new image, while a move to another directory does.
//
// Design: fields are unexported and only the Registry mutates them, so the
// image-side tag list and the tag-side back-references cannot drift apart.

package registry

import (
	"path/filepath"
	"slices"
	"time"

	"github.com/jpl-au/imgtag/internal/filename"
)

// ImageID is the stable arena handle of an image within a Registry.
type ImageID string

// Entry is one version log record: the tag set an image carried at a
// moment in time.
type Entry struct {
	At   time.Time
	Tags []string
}

// Identity is the equality key of an image.
type Identity struct {
	Base string
	Dir  string
}

// Image is a picture file tracked by the registry.
type Image struct {
	id   ImageID
	base string
	ext  string
	dir  string
	path string
	tags []string
	log  []Entry
}

// ID returns the arena handle.
func (img *Image) ID() ImageID { return img.id }

// BaseName returns the tag-free stem.
func (img *Image) BaseName() string { return img.base }

// Ext returns the extension without the leading dot.
func (img *Image) Ext() string { return img.ext }

// Dir returns the directory the image is anchored to.
func (img *Image) Dir() string { return img.dir }

// Path is the file's location on disk as of the last successful rename or
// move. It differs from the canonical path while the image is dirty.
func (img *Image) Path() string { return img.path }

// Tags returns the current tag names in encoding order.
func (img *Image) Tags() []string { return slices.Clone(img.tags) }

// HasTag reports whether name is currently attached.
func (img *Image) HasTag(name string) bool { return slices.Contains(img.tags, name) }

// Log returns a copy of the version log, oldest first.
func (img *Image) Log() []Entry {
	out := make([]Entry, len(img.log))
	for i, e := range img.log {
		out[i] = Entry{At: e.At, Tags: slices.Clone(e.Tags)}
	}
	return out
}

// Versions returns the number of version log entries.
func (img *Image) Versions() int { return len(img.log) }

// Identity returns the equality key.
func (img *Image) Identity() Identity {
	return Identity{Base: img.base, Dir: filename.DirKey(img.dir)}
}

// Equal reports whether img and o share base name and directory.
func (img *Image) Equal(o *Image) bool {
	if img == nil || o == nil {
		return img == o
	}
	return img.Identity() == o.Identity()
}

// FileName returns the canonical file name for the current tag state.
func (img *Image) FileName() string {
	return filename.Format(img.base, img.tags, img.ext)
}

// CanonicalPath joins the directory and the canonical file name.
func (img *Image) CanonicalPath() string {
	return filepath.Join(img.dir, img.FileName())
}

func (img *Image) String() string { return img.FileName() }

// record appends a deep copy of the current tags to the version log.
func (img *Image) record(at time.Time) {
	img.log = append(img.log, Entry{At: at, Tags: slices.Clone(img.tags)})
}

func (img *Image) dropTag(name string) bool {
	i := slices.Index(img.tags, name)
	if i < 0 {
		return false
	}
	img.tags = slices.Delete(img.tags, i, i+1)
	return true
}
