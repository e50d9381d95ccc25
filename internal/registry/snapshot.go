// snapshot.go converts a Registry to and from a plain value graph for
// persistence and export.
//
// The snapshot carries image handles rather than pointers. Restore rebuilds
// a single *Image per handle and points every tag back-reference at that
// same instance, then checks that both sides of each Tag/Image relation
// agree before handing the registry out.

package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"time"
)

// ErrCorrupt reports a snapshot whose relations do not line up.
var ErrCorrupt = errors.New("inconsistent registry snapshot")

// Snapshot is the serialisable form of a Registry.
type Snapshot struct {
	LastDirectory string              `yaml:"last_directory,omitempty" json:"last_directory,omitempty"`
	Directories   []DirectorySnapshot `yaml:"directories" json:"directories"`
	Tags          []TagSnapshot       `yaml:"tags" json:"tags"`
	Dirty         []ImageID           `yaml:"dirty,omitempty" json:"dirty,omitempty"`
}

// DirectorySnapshot is one directory index.
type DirectorySnapshot struct {
	Path   string          `yaml:"path" json:"path"`
	Images []ImageSnapshot `yaml:"images" json:"images"`
}

// ImageSnapshot is one image with its full version log.
type ImageSnapshot struct {
	ID   ImageID         `yaml:"id" json:"id"`
	Base string          `yaml:"base" json:"base"`
	Ext  string          `yaml:"ext" json:"ext"`
	Path string          `yaml:"path" json:"path"`
	Tags []string        `yaml:"tags" json:"tags"`
	Log  []EntrySnapshot `yaml:"log" json:"log"`
}

// EntrySnapshot is one version log record.
type EntrySnapshot struct {
	At   time.Time `yaml:"at" json:"at"`
	Tags []string  `yaml:"tags" json:"tags"`
}

// TagSnapshot is one tag with its back-references in order.
type TagSnapshot struct {
	Name   string    `yaml:"name" json:"name"`
	Images []ImageID `yaml:"images" json:"images"`
}

// Snapshot captures the registry as a value graph.
func (r *Registry) Snapshot() Snapshot {
	s := Snapshot{
		LastDirectory: r.lastDir,
		Dirty:         slices.Clone(r.dirty),
	}
	for _, d := range r.dirs {
		ds := DirectorySnapshot{Path: d.path}
		for _, img := range r.resolve(d.images) {
			is := ImageSnapshot{
				ID:   img.id,
				Base: img.base,
				Ext:  img.ext,
				Path: img.path,
				Tags: slices.Clone(img.tags),
			}
			for _, e := range img.log {
				is.Log = append(is.Log, EntrySnapshot{At: e.At, Tags: slices.Clone(e.Tags)})
			}
			ds.Images = append(ds.Images, is)
		}
		s.Directories = append(s.Directories, ds)
	}
	for _, t := range r.tags.All() {
		s.Tags = append(s.Tags, TagSnapshot{Name: t.name, Images: slices.Clone(t.images)})
	}
	return s
}

// Restore rebuilds a registry from s. now has the same meaning as in New.
func Restore(s Snapshot, now func() time.Time) (*Registry, error) {
	r := New(now)
	r.lastDir = s.LastDirectory

	for _, ds := range s.Directories {
		if _, dup := r.Directory(ds.Path); dup {
			return nil, fmt.Errorf("%w: directory %s listed twice", ErrCorrupt, ds.Path)
		}
		d := r.EnsureDirectory(ds.Path)
		for _, is := range ds.Images {
			if _, dup := r.images[is.ID]; dup {
				return nil, fmt.Errorf("%w: image %s listed twice", ErrCorrupt, is.ID)
			}
			if len(is.Log) == 0 {
				return nil, fmt.Errorf("%w: image %s has an empty version log", ErrCorrupt, is.ID)
			}
			img := &Image{
				id:   is.ID,
				base: is.Base,
				ext:  is.Ext,
				dir:  d.path,
				path: filepath.Clean(is.Path),
				tags: slices.Clone(is.Tags),
			}
			for _, e := range is.Log {
				img.log = append(img.log, Entry{At: e.At, Tags: slices.Clone(e.Tags)})
			}
			if _, replaced := d.add(img); replaced {
				return nil, fmt.Errorf("%w: %s appears twice in %s", ErrCorrupt, is.Base, ds.Path)
			}
			r.images[img.id] = img
		}
	}

	for _, ts := range s.Tags {
		t, created, err := r.tags.GetOrCreate(ts.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if !created {
			return nil, fmt.Errorf("%w: tag %s listed twice", ErrCorrupt, ts.Name)
		}
		for _, id := range ts.Images {
			img, ok := r.images[id]
			if !ok {
				return nil, fmt.Errorf("%w: tag %s references unknown image %s", ErrCorrupt, ts.Name, id)
			}
			if !img.HasTag(ts.Name) {
				return nil, fmt.Errorf("%w: tag %s references %s which does not carry it", ErrCorrupt, ts.Name, id)
			}
			t.attach(id)
		}
	}

	for _, img := range r.images {
		for _, name := range img.tags {
			t, ok := r.tags.Get(name)
			if !ok || !t.has(img.id) {
				return nil, fmt.Errorf("%w: image %s carries %s without a back-reference", ErrCorrupt, img.id, name)
			}
		}
	}

	for _, id := range s.Dirty {
		if img, ok := r.images[id]; ok {
			r.MarkDirty(img)
		}
	}
	return r, nil
}
