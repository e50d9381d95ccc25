package mcp

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/imgtag/internal/catalog"
	"github.com/jpl-au/imgtag/internal/ingest"
	"github.com/jpl-au/imgtag/internal/repo"
	"github.com/jpl-au/imgtag/internal/service"
)

func setup(t *testing.T, files ...string) (*handlers, string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
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

	h := &handlers{}
	h.attach(svc)
	return h, root
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestTools_RequireInit(t *testing.T) {
	h := &handlers{}
	res, err := h.listImages(context.Background(), call(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, ErrNotInitialised, text(t, res))
}

func TestTagAddAndList(t *testing.T) {
	h, root := setup(t, "beach.jpg")
	ctx := context.Background()
	path := filepath.Join(root, "beach.jpg")

	res, err := h.tagAdd(ctx, call(map[string]any{"image": path, "tags": []any{"sea", "sun"}}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	assert.FileExists(t, filepath.Join(root, "beach @sea @sun.jpg"))

	res, err = h.listTags(ctx, call(nil))
	require.NoError(t, err)
	var tags []service.TagInfo
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &tags))
	assert.Equal(t, []service.TagInfo{{Name: "sea", Images: 1}, {Name: "sun", Images: 1}}, tags)

	res, err = h.listImages(ctx, call(map[string]any{"tag": "sun"}))
	require.NoError(t, err)
	var imgs []service.Image
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &imgs))
	require.Len(t, imgs, 1)
	assert.Equal(t, "beach @sea @sun.jpg", imgs[0].Name)
}

func TestTagAdd_StringTagsAndInvalidName(t *testing.T) {
	h, root := setup(t, "beach.jpg")
	ctx := context.Background()
	path := filepath.Join(root, "beach.jpg")

	res, err := h.tagAdd(ctx, call(map[string]any{"image": path, "tags": "sea bad@tag"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.FileExists(t, path)

	res, err = h.tagAdd(ctx, call(map[string]any{"image": path}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestHistoryRevertDiff(t *testing.T) {
	h, root := setup(t, "beach.jpg")
	ctx := context.Background()

	_, err := h.tagAdd(ctx, call(map[string]any{"image": filepath.Join(root, "beach.jpg"), "tags": []any{"sea"}}))
	require.NoError(t, err)
	img, err := h.svc.Resolve(ctx, filepath.Join(root, "beach @sea.jpg"))
	require.NoError(t, err)

	res, err := h.diffVersions(ctx, call(map[string]any{"image": img.ID}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	assert.Contains(t, text(t, res), `"added": [`)

	res, err = h.revert(ctx, call(map[string]any{"image": img.ID, "index": float64(0)}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	assert.FileExists(t, filepath.Join(root, "beach.jpg"))

	res, err = h.revert(ctx, call(map[string]any{"image": img.ID}))
	require.NoError(t, err)
	assert.True(t, res.IsError, "index is required")

	res, err = h.history(ctx, call(map[string]any{"image": img.ID, "changes": true}))
	require.NoError(t, err)
	assert.Contains(t, text(t, res), "beach @sea.jpg -> beach.jpg")
}

func TestMoveAndFlush(t *testing.T) {
	h, root := setup(t, "beach.jpg")
	ctx := context.Background()
	dst := filepath.Join(root, "archive")
	require.NoError(t, os.Mkdir(dst, 0755))

	res, err := h.moveImage(ctx, call(map[string]any{"image": filepath.Join(root, "beach.jpg"), "dir": dst}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	assert.FileExists(t, filepath.Join(dst, "beach.jpg"))

	res, err = h.flush(ctx, call(nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), `"renamed"`)
}

func TestTagDelete(t *testing.T) {
	h, root := setup(t, "a @sea.jpg", "b @sea.png")
	ctx := context.Background()

	res, err := h.tagDelete(ctx, call(map[string]any{"tag": "sea"}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	assert.FileExists(t, filepath.Join(root, "a.jpg"))
	assert.FileExists(t, filepath.Join(root, "b.png"))

	res, err = h.tagDelete(ctx, call(map[string]any{"tag": "sea"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestParseImageURI(t *testing.T) {
	tests := []struct {
		uri     string
		want    string
		wantErr error
	}{
		{"imgtag://images/abcd2345", "abcd2345", nil},
		{"imgtag://images/", "", ErrEmptyID},
		{"imgtag://tags", "", ErrInvalidURI},
		{"imgtag://images/a/b", "", ErrInvalidURI},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := parseImageURI(tt.uri)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadImageResource(t *testing.T) {
	h, root := setup(t, "beach @sea.jpg")
	ctx := context.Background()
	img, err := h.svc.Resolve(ctx, filepath.Join(root, "beach @sea.jpg"))
	require.NoError(t, err)

	var req mcp.ReadResourceRequest
	req.Params.URI = "imgtag://images/" + img.ID
	contents, err := h.readImage(ctx, req)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	body := contents[0].(mcp.TextResourceContents).Text
	assert.Contains(t, body, `"history"`)
	assert.Contains(t, body, `"sea"`)
}
