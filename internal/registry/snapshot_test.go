package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestore_SharesImageInstances(t *testing.T) {
	r := newTestRegistry(t)
	one := addImage(t, r, "/photos", "one", "beach")
	two := addImage(t, r, "/photos/2020", "two", "beach", "family")
	r.AddTag(one, mustTag(t, r, "sunset"))
	r.SetLastDirectory("/photos")

	got, err := Restore(r.Snapshot(), nil)
	require.NoError(t, err)

	beach, ok := got.Tags().Get("beach")
	require.True(t, ok)
	tagged := got.TaggedImages(beach)
	require.Len(t, tagged, 2)

	gotOne, ok := got.Image(one.ID())
	require.True(t, ok)
	gotTwo, ok := got.Image(two.ID())
	require.True(t, ok)
	assert.Same(t, gotOne, tagged[0])
	assert.Same(t, gotTwo, tagged[1])

	found, ok := got.Find(two.Dir(), "two")
	require.True(t, ok)
	assert.Same(t, gotTwo, found)

	assert.Equal(t, one.Tags(), gotOne.Tags())
	assert.Equal(t, one.Log(), gotOne.Log())
	assert.Equal(t, "/photos", got.LastDirectory())
	assert.True(t, got.IsDirty(gotOne))
	assert.False(t, got.IsDirty(gotTwo))
	assert.Equal(t, r.Tags().Names(), got.Tags().Names())
}

func TestRestore_RejectsInconsistentSnapshot(t *testing.T) {
	r := newTestRegistry(t)
	addImage(t, r, "/photos", "one", "beach")

	t.Run("dangling back-reference", func(t *testing.T) {
		s := r.Snapshot()
		s.Tags[0].Images = append(s.Tags[0].Images, "missing")
		_, err := Restore(s, nil)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("missing back-reference", func(t *testing.T) {
		s := r.Snapshot()
		s.Tags[0].Images = nil
		_, err := Restore(s, nil)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("empty log", func(t *testing.T) {
		s := r.Snapshot()
		s.Directories[0].Images[0].Log = nil
		_, err := Restore(s, nil)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	_, err := Restore(r.Snapshot(), nil)
	require.NoError(t, err, "unmodified snapshot restores")
}
