package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jpl-au/imgtag/internal/registry"
	"github.com/jpl-au/imgtag/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupStore creates a temporary SQLite store for testing.
func setupStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Init())
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New(nil)
	add := func(dir, base string, tags ...string) *registry.Image {
		img, _, err := reg.AddImage(registry.NewImage{
			Dir: dir, Base: base, Ext: "png",
			Path: filepath.Join(dir, base+".png"), Tags: tags,
		})
		require.NoError(t, err)
		return img
	}
	one := add("/photos", "one", "beach", "2020")
	add("/photos", "two", "beach")
	add("/photos/raw", "three")
	reg.EnsureDirectory("/photos/empty")

	sunset, _, err := reg.Tags().GetOrCreate("sunset")
	require.NoError(t, err)
	reg.AddTag(one, sunset)
	reg.Tags().GetOrCreate("unused")
	reg.SetLastDirectory("/photos")
	return reg
}

func TestStore_LoadEmpty(t *testing.T) {
	s := setupStore(t)

	reg, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, reg.Len())
	assert.Empty(t, reg.Directories())
	assert.Zero(t, reg.Tags().Len())
}

func TestStore_SaveLoad(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	want := sampleRegistry(t)

	require.NoError(t, s.Save(ctx, want))
	got, err := s.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, "/photos", got.LastDirectory())
	assert.Equal(t, want.Tags().Names(), got.Tags().Names())
	require.Len(t, got.Directories(), 3)
	assert.Equal(t, "empty", got.Directories()[2].Name())

	for _, w := range want.AllImages() {
		g, ok := got.Image(w.ID())
		require.True(t, ok, w.BaseName())
		assert.Equal(t, w.Tags(), g.Tags())
		assert.Equal(t, w.Path(), g.Path())
		assert.Equal(t, w.FileName(), g.FileName())
		require.Equal(t, w.Versions(), g.Versions())
		for i, e := range w.Log() {
			assert.True(t, e.At.Equal(g.Log()[i].At))
			assert.Equal(t, e.Tags, g.Log()[i].Tags)
		}
		assert.Equal(t, want.IsDirty(w), got.IsDirty(g))
	}
}

func TestStore_BackReferencesShareInstances(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, sampleRegistry(t)))

	got, err := s.Load(ctx)
	require.NoError(t, err)

	beach, ok := got.Tags().Get("beach")
	require.True(t, ok)
	tagged := got.TaggedImages(beach)
	require.Len(t, tagged, 2)
	for _, img := range tagged {
		indexed, ok := got.Find(img.Dir(), img.BaseName())
		require.True(t, ok)
		assert.Same(t, indexed, img)
	}
}

func TestStore_SaveReplacesPreviousGraph(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	reg := sampleRegistry(t)
	require.NoError(t, s.Save(ctx, reg))

	beach, _ := reg.Tags().Get("beach")
	reg.DeleteTag(beach)
	require.NoError(t, s.Save(ctx, reg))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	_, ok := got.Tags().Get("beach")
	assert.False(t, ok)
	for _, img := range got.AllImages() {
		assert.False(t, img.HasTag("beach"))
	}
}

func TestStore_Stats(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, sampleRegistry(t)))

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, st.Directories)
	assert.EqualValues(t, 3, st.Images)
	assert.EqualValues(t, 4, st.Tags)
	assert.EqualValues(t, 4, st.Versions)
	assert.EqualValues(t, 1, st.Pending)
}
