package exporter

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jpl-au/imgtag/internal/catalog"
	"github.com/jpl-au/imgtag/internal/ingest"
	"github.com/jpl-au/imgtag/internal/repo"
	"github.com/jpl-au/imgtag/internal/service"
)

func setupService(t *testing.T, files ...string) (service.Service, string) {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, f), []byte(f), 0644))
	}
	require.NoError(t, catalog.Init(false, "", false, root))
	svc, err := catalog.Open(filepath.Join(root, repo.Dir, repo.DBFile), nil)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	_, err = svc.Ingest(context.Background(), io.Discard, root, ingest.Options{})
	require.NoError(t, err)
	return svc, root
}

func TestRun_WritesManifest(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	svc, root := setupService(t, "beach @sea.jpg", "city.png")
	ctx := context.Background()
	_, err := svc.AddTags(ctx, filepath.Join(root, "city.png"), "night")
	require.NoError(t, err)

	out := t.TempDir()
	var buf bytes.Buffer
	res, err := Run(ctx, &buf, svc, out, Options{History: true})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, DefaultName), res.Path)
	assert.Equal(t, 2, res.Images)
	assert.Equal(t, 2, res.Tags)
	assert.Contains(t, buf.String(), "Exported 2 images, 2 tags")

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	var m Manifest
	require.NoError(t, yaml.Unmarshal(data, &m))
	assert.True(t, fixed.Equal(m.Generated))
	assert.Equal(t, root, m.LastDirectory)
	require.Len(t, m.Images, 2)

	byName := map[string]Entry{}
	for _, e := range m.Images {
		byName[e.Base] = e
	}
	city := byName["city"]
	assert.Equal(t, "city @night.png", city.Name)
	assert.Equal(t, []string{"night"}, city.Tags)
	require.Len(t, city.History, 2)
	assert.Equal(t, "city.png", city.History[0].Name)
}

func TestRun_RefusesOverwrite(t *testing.T) {
	svc, _ := setupService(t, "beach.jpg")
	ctx := context.Background()
	dst := filepath.Join(t.TempDir(), "out", "catalogue.yaml")

	_, err := Run(ctx, io.Discard, svc, dst, Options{})
	require.NoError(t, err)

	_, err = Run(ctx, io.Discard, svc, dst, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file exists")

	_, err = Run(ctx, io.Discard, svc, dst, Options{Force: true})
	assert.NoError(t, err)
}

func TestBuild_WithoutHistory(t *testing.T) {
	svc, root := setupService(t, "beach @sea.jpg")

	m, err := Build(context.Background(), svc, Options{Dir: root})
	require.NoError(t, err)
	require.Len(t, m.Images, 1)
	assert.Nil(t, m.Images[0].History)
	assert.Len(t, m.Directories, 1)
}
