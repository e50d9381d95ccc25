// mutate.go implements the tag mutations: add, remove, remove-all, revert
// and tag deletion.
//
// Each mutation updates the image's tag list and the tag's back-references
// together, appends exactly one version log entry and marks the image
// dirty. Checks run before any change so a rejected call mutates nothing.

package registry

import (
	"fmt"
	"slices"

	"github.com/jpl-au/imgtag/internal/validate"
)

// RemoveOptions tunes RemoveTag for batch callers. The zero value updates
// the log and detaches the back-reference.
type RemoveOptions struct {
	// SkipLog suppresses the version log entry, for callers that record
	// once after a batch.
	SkipLog bool
	// SkipDetach leaves the tag's back-reference list alone, for callers
	// that are iterating or discarding it.
	SkipDetach bool
}

// AddTag attaches t to img. It returns false when img already carries t.
func (r *Registry) AddTag(img *Image, t *Tag) bool {
	if img.HasTag(t.name) {
		return false
	}
	t = r.tags.adopt(t)
	img.tags = append(img.tags, t.name)
	t.attach(img.id)
	img.record(r.now())
	r.MarkDirty(img)
	return true
}

// RemoveTag detaches t from img. It returns false when img did not carry t,
// in which case nothing is recorded.
func (r *Registry) RemoveTag(img *Image, t *Tag, opts RemoveOptions) bool {
	if !img.dropTag(t.name) {
		return false
	}
	if !opts.SkipDetach {
		if cur, ok := r.tags.Get(t.name); ok {
			cur.detach(img.id)
		}
	}
	if !opts.SkipLog {
		img.record(r.now())
	}
	r.MarkDirty(img)
	return true
}

// RemoveAllTags clears img's tags with a single version log entry.
func (r *Registry) RemoveAllTags(img *Image) {
	for _, name := range img.tags {
		if t, ok := r.tags.Get(name); ok {
			t.detach(img.id)
		}
	}
	img.tags = nil
	img.record(r.now())
	r.MarkDirty(img)
}

// Revert restores img's tags to version log entry index and records the
// result as a new entry. Back-references are recomputed: tags dropped by
// the revert release img and restored tags (recreated in the store if
// they were deleted since) point at it again.
func (r *Registry) Revert(img *Image, index int) error {
	if index < 0 || index >= len(img.log) {
		return fmt.Errorf("%w: version %d of %d", validate.ErrIndexOutOfRange, index, len(img.log))
	}
	target := slices.Clone(img.log[index].Tags)

	for _, name := range img.tags {
		if slices.Contains(target, name) {
			continue
		}
		if t, ok := r.tags.Get(name); ok {
			t.detach(img.id)
		}
	}
	kept := target[:0]
	for _, name := range target {
		t, _, err := r.tags.GetOrCreate(name)
		if err != nil {
			continue
		}
		t.attach(img.id)
		kept = append(kept, name)
	}

	img.tags = kept
	img.record(r.now())
	r.MarkDirty(img)
	return nil
}

// DeleteTag detaches t from every image carrying it and removes it from
// the store. Images are kept; each affected image gets one version log
// entry and is marked dirty. It returns the affected images.
func (r *Registry) DeleteTag(t *Tag) []*Image {
	cur, ok := r.tags.Get(t.name)
	if !ok {
		return nil
	}
	affected := r.resolve(cur.images)
	for _, img := range affected {
		r.RemoveTag(img, cur, RemoveOptions{SkipDetach: true})
	}
	cur.images = nil
	r.tags.remove(cur.name)
	return affected
}
