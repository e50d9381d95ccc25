package registry

import (
	"path/filepath"
	"slices"
)

// DirectoryIndex is the set of images anchored to one physical directory.
// Membership is unique by base name, which together with the shared
// directory is the image identity.
type DirectoryIndex struct {
	path   string
	name   string
	images []ImageID
	byBase map[string]ImageID
}

func newDirectoryIndex(path string) *DirectoryIndex {
	return &DirectoryIndex{
		path:   path,
		name:   filepath.Base(path),
		byBase: make(map[string]ImageID),
	}
}

// Path returns the absolute directory path.
func (d *DirectoryIndex) Path() string { return d.path }

// Name returns the last path segment, used for display.
func (d *DirectoryIndex) Name() string { return d.name }

// Images returns the member handles in insertion order.
func (d *DirectoryIndex) Images() []ImageID { return slices.Clone(d.images) }

// Len returns the number of member images.
func (d *DirectoryIndex) Len() int { return len(d.images) }

func (d *DirectoryIndex) lookup(base string) (ImageID, bool) {
	id, ok := d.byBase[base]
	return id, ok
}

// add inserts img, returning the handle of the member it replaced.
func (d *DirectoryIndex) add(img *Image) (replaced ImageID, ok bool) {
	if old, exists := d.byBase[img.base]; exists {
		i := slices.Index(d.images, old)
		d.images[i] = img.id
		d.byBase[img.base] = img.id
		return old, true
	}
	d.images = append(d.images, img.id)
	d.byBase[img.base] = img.id
	return "", false
}

func (d *DirectoryIndex) remove(img *Image) {
	if d.byBase[img.base] == img.id {
		delete(d.byBase, img.base)
	}
	d.images = slices.DeleteFunc(d.images, func(x ImageID) bool { return x == img.id })
}
