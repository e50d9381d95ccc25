package revert_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jpl-au/imgtag/internal/catalog"
	"github.com/jpl-au/imgtag/internal/history"
	"github.com/jpl-au/imgtag/internal/ingest"
	"github.com/jpl-au/imgtag/internal/repo"
	"github.com/jpl-au/imgtag/internal/revert"
	"github.com/jpl-au/imgtag/internal/service"
	"github.com/jpl-au/imgtag/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupService returns a catalogue holding beach.jpg tagged twice.
func setupService(t *testing.T) (service.Service, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "beach.jpg"), []byte("jpg"), 0644))
	require.NoError(t, catalog.Init(false, "", false, root))
	svc, err := catalog.Open(filepath.Join(root, repo.Dir, repo.DBFile), nil)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	ctx := context.Background()
	_, err = svc.Ingest(ctx, io.Discard, root, ingest.Options{})
	require.NoError(t, err)
	img, err := svc.AddTags(ctx, filepath.Join(root, "beach.jpg"), "sea")
	require.NoError(t, err)
	_, err = svc.AddTags(ctx, img.ID, "sun")
	require.NoError(t, err)
	return svc, img.ID
}

func TestRun_RestoresInitialVersion(t *testing.T) {
	svc, id := setupService(t)
	ctx := context.Background()

	var buf bytes.Buffer
	result, err := revert.Run(ctx, &buf, svc, id, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, result.NewVersion)
	assert.Equal(t, "beach.jpg", result.Name)
	assert.Equal(t, []string{}, result.Tags)
	assert.Equal(t, "Reverted beach.jpg to v0 (now v3)\n", buf.String())

	_, err = revert.Run(ctx, io.Discard, svc, id, 7)
	assert.ErrorIs(t, err, validate.ErrIndexOutOfRange)

	h, err := history.Run(ctx, io.Discard, svc, id, history.Options{Changes: true})
	require.NoError(t, err)
	assert.Len(t, h.Lines, 3)
}
