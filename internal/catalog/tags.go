// tags.go implements tag mutations for the service layer.
//
// Tag names are validated up front for the whole batch, so an invalid name
// in "tag add img a b@c" rejects the call before "a" is attached. Each tag
// actually added or removed records one version and fires one TagEvent.

package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jpl-au/imgtag/extension"
	"github.com/jpl-au/imgtag/internal/registry"
	"github.com/jpl-au/imgtag/internal/service"
	"github.com/jpl-au/imgtag/internal/validate"
)

// normalise strips an optional "@" prefix from each name and validates it.
func normalise(names []string) ([]string, error) {
	out := make([]string, len(names))
	for i, n := range names {
		n = strings.TrimPrefix(n, validate.Marker)
		if err := validate.TagName(n); err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// CreateTag registers a tag without attaching it to an image.
func (s *Service) CreateTag(ctx context.Context, name string) (service.TagInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := normalise([]string{name})
	if err != nil {
		return service.TagInfo{}, err
	}
	t, created, err := s.reg.Tags().GetOrCreate(names[0])
	if err != nil {
		return service.TagInfo{}, err
	}
	if created {
		if _, err := s.commit(ctx, io.Discard); err != nil {
			return service.TagInfo{}, err
		}
	}
	return service.TagInfo{Name: t.Name(), Images: t.Len()}, nil
}

// AddTags attaches tags to an image, creating unknown tags.
func (s *Service) AddTags(ctx context.Context, ref string, names ...string) (service.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	img, err := s.resolve(ref)
	if err != nil {
		return service.Image{}, err
	}
	names, err = normalise(names)
	if err != nil {
		return s.view(img), err
	}

	var added []string
	for _, n := range names {
		t, _, err := s.reg.Tags().GetOrCreate(n)
		if err != nil {
			return s.view(img), err
		}
		if s.reg.AddTag(img, t) {
			added = append(added, n)
		}
	}
	return s.finishTagging(ctx, img, added, true)
}

// RemoveTags detaches tags from an image.
func (s *Service) RemoveTags(ctx context.Context, ref string, names ...string) (service.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	img, err := s.resolve(ref)
	if err != nil {
		return service.Image{}, err
	}
	names, err = normalise(names)
	if err != nil {
		return s.view(img), err
	}

	var removed []string
	for _, n := range names {
		t, ok := s.reg.Tags().Get(n)
		if !ok {
			continue
		}
		if s.reg.RemoveTag(img, t, registry.RemoveOptions{}) {
			removed = append(removed, n)
		}
	}
	return s.finishTagging(ctx, img, removed, false)
}

// RemoveAllTags clears every tag of an image as one version.
func (s *Service) RemoveAllTags(ctx context.Context, ref string) (service.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	img, err := s.resolve(ref)
	if err != nil {
		return service.Image{}, err
	}
	removed := img.Tags()
	s.reg.RemoveAllTags(img)
	return s.finishTagging(ctx, img, removed, false)
}

// finishTagging commits and fires one event per changed tag. Caller holds s.mu.
func (s *Service) finishTagging(ctx context.Context, img *registry.Image, changed []string, added bool) (service.Image, error) {
	if !s.reg.IsDirty(img) && len(changed) == 0 {
		return s.view(img), nil
	}
	_, err := s.commit(ctx, io.Discard, img)
	for _, n := range changed {
		s.fireEvent(extension.TagEvent{ImageID: string(img.ID()), Path: img.Path(), Tag: n, Added: added})
	}
	return s.view(img), err
}

// DeleteTag removes a tag from the store and from every image carrying it.
func (s *Service) DeleteTag(ctx context.Context, name string) ([]service.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.tag(name)
	if err != nil {
		return nil, err
	}
	affected := s.reg.DeleteTag(t)
	if _, err := s.commit(ctx, io.Discard, affected...); err != nil {
		return s.views(affected), fmt.Errorf("delete tag %s: %w", t.Name(), err)
	}

	ids := make([]string, len(affected))
	for i, img := range affected {
		ids[i] = string(img.ID())
	}
	s.fireEvent(extension.TagDeleteEvent{Tag: t.Name(), Images: ids})
	return s.views(affected), nil
}
