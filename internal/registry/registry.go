// Package registry holds the in-memory model: tags, images, directory
// indexes and the Registry that owns them.
//
// The Registry is an arena. Images live in a map keyed by ImageID, tags
// hold ImageIDs, and images hold tag names (a tag's name is its handle
// because names are unique and immutable). Every operation that touches
// both sides of the Tag/Image relation is a Registry method, so there is
// exactly one owner of the cycle.
//
// A Registry is not safe for concurrent use. Callers that share one
// across goroutines serialise access themselves (see internal/catalog).
package registry

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/jpl-au/imgtag/internal/filename"
	"github.com/jpl-au/imgtag/internal/validate"
)

// Registry is the root of the persisted state.
type Registry struct {
	images  map[ImageID]*Image
	dirs    []*DirectoryIndex
	byDir   map[string]*DirectoryIndex // keyed by filename.DirKey
	tags    *TagStore
	lastDir string
	dirty   []ImageID
	now     func() time.Time
}

// New returns an empty registry. now supplies mutation timestamps; nil
// means time.Now.
func New(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		images: make(map[ImageID]*Image),
		byDir:  make(map[string]*DirectoryIndex),
		tags:   NewTagStore(),
		now:    now,
	}
}

// Tags returns the tag store.
func (r *Registry) Tags() *TagStore { return r.tags }

// LastDirectory returns the most recently chosen directory.
func (r *Registry) LastDirectory() string { return r.lastDir }

// SetLastDirectory records the most recently chosen directory.
func (r *Registry) SetLastDirectory(dir string) { r.lastDir = dir }

// Directories returns every directory index in creation order.
func (r *Registry) Directories() []*DirectoryIndex { return slices.Clone(r.dirs) }

// Directory returns the index anchored at dir.
func (r *Registry) Directory(dir string) (*DirectoryIndex, bool) {
	d, ok := r.byDir[filename.DirKey(dir)]
	return d, ok
}

// EnsureDirectory returns the index anchored at dir, creating it when no
// index exists for that path yet.
func (r *Registry) EnsureDirectory(dir string) *DirectoryIndex {
	dir = filepath.Clean(dir)
	if d, ok := r.Directory(dir); ok {
		return d
	}
	d := newDirectoryIndex(dir)
	r.dirs = append(r.dirs, d)
	r.byDir[filename.DirKey(dir)] = d
	return d
}

// Image returns the image with the given handle.
func (r *Registry) Image(id ImageID) (*Image, bool) {
	img, ok := r.images[id]
	return img, ok
}

// Len returns the number of images.
func (r *Registry) Len() int { return len(r.images) }

// Images returns the images of d in index order.
func (r *Registry) Images(d *DirectoryIndex) []*Image {
	return r.resolve(d.images)
}

// AllImages returns every image, grouped by directory index.
func (r *Registry) AllImages() []*Image {
	out := make([]*Image, 0, len(r.images))
	for _, d := range r.dirs {
		out = append(out, r.resolve(d.images)...)
	}
	return out
}

// TaggedImages returns the images currently carrying t.
func (r *Registry) TaggedImages(t *Tag) []*Image {
	return r.resolve(t.images)
}

// Find returns the image anchored at dir with the given base name.
func (r *Registry) Find(dir, base string) (*Image, bool) {
	d, ok := r.Directory(dir)
	if !ok {
		return nil, false
	}
	id, ok := d.lookup(base)
	if !ok {
		return nil, false
	}
	return r.Image(id)
}

// FindPath returns the image whose on-disk or canonical path is p.
func (r *Registry) FindPath(p string) (*Image, bool) {
	p = filepath.Clean(p)
	d, ok := r.Directory(filepath.Dir(p))
	if !ok {
		return nil, false
	}
	for _, img := range r.resolve(d.images) {
		if img.path == p || img.CanonicalPath() == p {
			return img, true
		}
	}
	if parsed, ok := filename.Parse(filepath.Base(p)); ok {
		return r.Find(d.path, parsed.Base)
	}
	return nil, false
}

func (r *Registry) resolve(ids []ImageID) []*Image {
	out := make([]*Image, 0, len(ids))
	for _, id := range ids {
		if img, ok := r.images[id]; ok {
			out = append(out, img)
		}
	}
	return out
}

// NewImage describes a file discovered on disk.
type NewImage struct {
	Dir  string   // absolute directory
	Base string   // tag-free stem
	Ext  string   // extension without dot
	Path string   // actual file path
	Tags []string // tags parsed from the file name
}

// AddImage creates an image from a discovered file and anchors it in the
// index for n.Dir. Seeded tags are attached before the single initial log
// entry is recorded. An existing image with the same identity is replaced
// and detached from its tags. Invalid seed tags are skipped.
func (r *Registry) AddImage(n NewImage) (img *Image, replaced *Image, err error) {
	id, err := r.newID()
	if err != nil {
		return nil, nil, err
	}
	img = &Image{
		id:   id,
		base: n.Base,
		ext:  n.Ext,
		dir:  filepath.Clean(n.Dir),
		path: n.Path,
	}

	d := r.EnsureDirectory(img.dir)
	img.dir = d.path

	if oldID, ok := d.lookup(img.base); ok {
		replaced = r.images[oldID]
		r.forget(replaced)
	}

	for _, name := range n.Tags {
		t, _, err := r.tags.GetOrCreate(name)
		if err != nil || img.HasTag(name) {
			continue
		}
		img.tags = append(img.tags, name)
		t.attach(img.id)
	}
	img.record(r.now())

	d.add(img)
	r.images[img.id] = img
	return img, replaced, nil
}

// forget detaches img from every tag and drops it from the arena. The
// caller updates index membership.
func (r *Registry) forget(img *Image) {
	for _, name := range img.tags {
		if t, ok := r.tags.Get(name); ok {
			t.detach(img.id)
		}
	}
	r.ClearDirty(img)
	delete(r.images, img.id)
}

// CanRelocate reports whether img may be anchored in dir without
// colliding with a different image of the same identity.
func (r *Registry) CanRelocate(img *Image, dir string) error {
	if other, ok := r.Find(dir, img.base); ok && other.id != img.id {
		return fmt.Errorf("%w: %s in %s", validate.ErrImageExists, img.base, dir)
	}
	return nil
}

// Relocate moves img to the index for dir, recording path as its new
// on-disk location, and marks it dirty. The file must already be at path.
func (r *Registry) Relocate(img *Image, dir, path string) error {
	if err := r.CanRelocate(img, dir); err != nil {
		return err
	}
	if old, ok := r.Directory(img.dir); ok {
		old.remove(img)
	}
	d := r.EnsureDirectory(dir)
	d.add(img)
	img.dir = d.path
	img.path = path
	r.MarkDirty(img)
	return nil
}

// SetPath records a completed rename.
func (r *Registry) SetPath(img *Image, path string) { img.path = path }

// MarkDirty flags img for the next flush.
func (r *Registry) MarkDirty(img *Image) {
	if !slices.Contains(r.dirty, img.id) {
		r.dirty = append(r.dirty, img.id)
	}
}

// ClearDirty removes img from the pending set.
func (r *Registry) ClearDirty(img *Image) {
	r.dirty = slices.DeleteFunc(r.dirty, func(id ImageID) bool { return id == img.id })
}

// IsDirty reports whether img has tag changes not yet reflected on disk.
func (r *Registry) IsDirty(img *Image) bool { return slices.Contains(r.dirty, img.id) }

// Dirty returns the pending images in the order they became dirty.
func (r *Registry) Dirty() []*Image { return r.resolve(r.dirty) }

// newID generates an 8-character base32 handle unique within r.
func (r *Registry) newID() (ImageID, error) {
	b := make([]byte, 5)
	for {
		if _, err := rand.Read(b); err != nil {
			return "", fmt.Errorf("generate id: %w", err)
		}
		id := ImageID(strings.ToLower(base32.StdEncoding.EncodeToString(b)))
		if _, taken := r.images[id]; !taken {
			return id, nil
		}
	}
}
