package history_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jpl-au/imgtag/internal/catalog"
	"github.com/jpl-au/imgtag/internal/history"
	"github.com/jpl-au/imgtag/internal/ingest"
	"github.com/jpl-au/imgtag/internal/repo"
	"github.com/jpl-au/imgtag/internal/service"
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

func TestRun_Names(t *testing.T) {
	svc, id := setupService(t)

	var buf bytes.Buffer
	result, err := history.Run(context.Background(), &buf, svc, id, history.Options{})
	require.NoError(t, err)
	require.Len(t, result.Lines, 3)
	require.Len(t, result.Versions, 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[0]), "0  "))
	assert.True(t, strings.HasSuffix(lines[2], ": beach @sea @sun.jpg"))
}

func TestRun_ChangesWithLimit(t *testing.T) {
	svc, id := setupService(t)

	var buf bytes.Buffer
	result, err := history.Run(context.Background(), &buf, svc, id, history.Options{Changes: true, Limit: 1})
	require.NoError(t, err)
	require.Len(t, result.Lines, 1)
	assert.True(t, strings.HasSuffix(result.Lines[0], "beach @sea.jpg -> beach @sea @sun.jpg"))
	assert.True(t, strings.HasPrefix(buf.String(), "  2  "))
}
