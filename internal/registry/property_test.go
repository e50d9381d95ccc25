package registry

import (
	"errors"
	"testing"

	"github.com/jpl-au/imgtag/internal/validate"
	"pgregory.net/rapid"
)

func TestTagName_ValidAlwaysCreated(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringMatching(`[^ @]{1,16}`).Draw(t, "name")
		s := NewTagStore()

		first, created, err := s.GetOrCreate(name)
		if err != nil || !created {
			t.Fatalf("GetOrCreate(%q) = %v, %v", name, created, err)
		}
		again, created, err := s.GetOrCreate(name)
		if err != nil || created || again != first {
			t.Fatalf("second GetOrCreate(%q) created a new tag", name)
		}
		if s.Len() != 1 {
			t.Fatalf("store holds %d tags, want 1", s.Len())
		}
	})
}

func TestTagName_InvalidRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.OneOf(
			rapid.Just(""),
			rapid.StringMatching(`[a-z]{0,5} [a-z ]{0,5}`),
			rapid.StringMatching(`[a-z]{0,5}@[a-z@]{0,5}`),
		).Draw(t, "name")
		s := NewTagStore()

		_, _, err := s.GetOrCreate(name)
		if err == nil {
			t.Fatalf("GetOrCreate(%q) accepted an invalid name", name)
		}
		if !errors.Is(err, validate.ErrInvalidTagName) {
			t.Fatalf("GetOrCreate(%q) = %v, want ErrInvalidTagName", name, err)
		}
		if s.Len() != 0 {
			t.Fatalf("store changed after rejected name %q", name)
		}
	})
}

// TestMutations_BackReferencesAgree drives random tag mutations and checks
// that the image side and the tag side of every relation stay in step.
func TestMutations_BackReferencesAgree(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := New(nil)
		var imgs []*Image
		for _, base := range []string{"a", "b", "c"} {
			img, _, err := r.AddImage(NewImage{Dir: "/p", Base: base, Ext: "png", Path: "/p/" + base + ".png"})
			if err != nil {
				t.Fatal(err)
			}
			imgs = append(imgs, img)
		}
		names := []string{"x", "y", "z"}

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for range steps {
			img := rapid.SampledFrom(imgs).Draw(t, "image")
			name := rapid.SampledFrom(names).Draw(t, "tag")
			before := img.Versions()
			switch rapid.IntRange(0, 4).Draw(t, "op") {
			case 0:
				tag, _, _ := r.Tags().GetOrCreate(name)
				if r.AddTag(img, tag) && img.Versions() != before+1 {
					t.Fatal("add did not record exactly one entry")
				}
			case 1:
				if tag, ok := r.Tags().Get(name); ok {
					r.RemoveTag(img, tag, RemoveOptions{})
				}
			case 2:
				r.RemoveAllTags(img)
				if img.Versions() != before+1 {
					t.Fatal("remove-all did not record exactly one entry")
				}
			case 3:
				idx := rapid.IntRange(0, img.Versions()-1).Draw(t, "index")
				if err := r.Revert(img, idx); err != nil {
					t.Fatal(err)
				}
			case 4:
				if tag, ok := r.Tags().Get(name); ok {
					r.DeleteTag(tag)
				}
			}
			if len(img.ChangeLog("")) != img.Versions()-1 {
				t.Fatal("change log length out of step with version log")
			}
		}

		for _, img := range imgs {
			for _, name := range img.Tags() {
				tag, ok := r.Tags().Get(name)
				if !ok || !tag.has(img.ID()) {
					t.Fatalf("%s carries %s without a back-reference", img.BaseName(), name)
				}
			}
		}
		for _, tag := range r.Tags().All() {
			for _, img := range r.TaggedImages(tag) {
				if !img.HasTag(tag.Name()) {
					t.Fatalf("tag %s points at %s which does not carry it", tag.Name(), img.BaseName())
				}
			}
		}
	})
}
