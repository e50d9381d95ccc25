package registry

import "slices"

// TagStore is the deduplicated set of every tag in a Registry, keyed by
// name. Listing order is creation order.
type TagStore struct {
	byName map[string]*Tag
	order  []string
}

// NewTagStore returns an empty store.
func NewTagStore() *TagStore {
	return &TagStore{byName: make(map[string]*Tag)}
}

// GetOrCreate returns the tag called name, creating it when absent.
// created is false when an existing tag was returned. Validation errors
// leave the store unchanged.
func (s *TagStore) GetOrCreate(name string) (t *Tag, created bool, err error) {
	if t, ok := s.byName[name]; ok {
		return t, false, nil
	}
	t, err = CreateTag(name)
	if err != nil {
		return nil, false, err
	}
	s.insert(t)
	return t, true, nil
}

// Get returns the tag called name.
func (s *TagStore) Get(name string) (*Tag, bool) {
	t, ok := s.byName[name]
	return t, ok
}

// All returns every tag in creation order.
func (s *TagStore) All() []*Tag {
	out := make([]*Tag, 0, len(s.order))
	for _, n := range s.order {
		out = append(out, s.byName[n])
	}
	return out
}

// Names returns every tag name in creation order.
func (s *TagStore) Names() []string { return slices.Clone(s.order) }

// Len returns the number of tags.
func (s *TagStore) Len() int { return len(s.order) }

func (s *TagStore) insert(t *Tag) {
	s.byName[t.name] = t
	s.order = append(s.order, t.name)
}

// adopt returns the stored tag sharing t's name, re-inserting t when the
// name is no longer in the store (a caller holding a deleted tag).
func (s *TagStore) adopt(t *Tag) *Tag {
	if cur, ok := s.byName[t.name]; ok {
		return cur
	}
	t.images = nil
	s.insert(t)
	return t
}

func (s *TagStore) remove(name string) {
	if _, ok := s.byName[name]; !ok {
		return
	}
	delete(s.byName, name)
	s.order = slices.DeleteFunc(s.order, func(n string) bool { return n == name })
}
