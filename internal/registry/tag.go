// tag.go defines Tag, a named label with back-references to the images
// currently wearing it.
//
// Separated from tagstore.go because a Tag is also handed out to callers
// on its own. Its back-reference list is only ever changed by the owning
// Registry so both sides of the Tag/Image relation move together.

package registry

import (
	"slices"

	"github.com/jpl-au/imgtag/internal/validate"
)

// Tag is a named label. Two tags are equal iff their names are equal.
type Tag struct {
	name   string
	images []ImageID // insertion ordered, no duplicates
}

// CreateTag returns a new tag with no tagged images. It fails with
// validate.ErrInvalidTagName when name is empty, contains a space or
// contains the @ marker.
func CreateTag(name string) (*Tag, error) {
	if err := validate.TagName(name); err != nil {
		return nil, err
	}
	return &Tag{name: name}, nil
}

// Name returns the tag name.
func (t *Tag) Name() string { return t.name }

// String returns the encoded form, "@name".
func (t *Tag) String() string { return validate.Marker + t.name }

// Equal reports whether t and o carry the same name.
func (t *Tag) Equal(o *Tag) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.name == o.name
}

// Images returns the handles of the images currently tagged with t.
func (t *Tag) Images() []ImageID { return slices.Clone(t.images) }

// Len returns the number of tagged images.
func (t *Tag) Len() int { return len(t.images) }

func (t *Tag) has(id ImageID) bool { return slices.Contains(t.images, id) }

func (t *Tag) attach(id ImageID) {
	if !t.has(id) {
		t.images = append(t.images, id)
	}
}

func (t *Tag) detach(id ImageID) {
	t.images = slices.DeleteFunc(t.images, func(x ImageID) bool { return x == id })
}
