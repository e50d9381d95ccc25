package watcher_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/imgtag/internal/catalog"
	"github.com/jpl-au/imgtag/internal/ingest"
	"github.com/jpl-au/imgtag/internal/repo"
	"github.com/jpl-au/imgtag/internal/watcher"
)

func start(t *testing.T, cfg watcher.Config) <-chan struct{} {
	t.Helper()
	w, err := watcher.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })
	changes, err := w.Start()
	require.NoError(t, err)
	return changes
}

func TestWatcher_DebouncesNewImages(t *testing.T) {
	dir := t.TempDir()
	changes := start(t, watcher.Config{Root: dir, Debounce: 50 * time.Millisecond})

	for _, name := range []string{"a.jpg", "b.png", "c @sea.gif"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-changes:
	case <-time.After(time.Second):
		t.Fatal("expected notification but got timeout")
	}
	select {
	case <-changes:
		t.Fatal("unexpected second notification")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_IgnoresNonImages(t *testing.T) {
	dir := t.TempDir()
	changes := start(t, watcher.Config{Root: dir, Debounce: 20 * time.Millisecond})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "upper.JPG"), []byte("x"), 0644))

	select {
	case <-changes:
		t.Fatal("unexpected notification for non-image files")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_SkipsConfiguredDirectories(t *testing.T) {
	dir := t.TempDir()
	skipped := filepath.Join(dir, repo.Dir)
	require.NoError(t, os.Mkdir(skipped, 0755))
	changes := start(t, watcher.Config{Root: dir, Debounce: 20 * time.Millisecond, SkipDirs: []string{repo.Dir}})

	require.NoError(t, os.WriteFile(filepath.Join(skipped, "cache.png"), []byte("x"), 0644))

	select {
	case <-changes:
		t.Fatal("unexpected notification from a skipped directory")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_FollowsNewDirectories(t *testing.T) {
	dir := t.TempDir()
	changes := start(t, watcher.Config{Root: dir, Debounce: 30 * time.Millisecond})

	sub := filepath.Join(dir, "2026")
	require.NoError(t, os.Mkdir(sub, 0755))
	<-changes

	require.NoError(t, os.WriteFile(filepath.Join(sub, "park.jpg"), []byte("x"), 0644))
	select {
	case <-changes:
	case <-time.After(time.Second):
		t.Fatal("expected notification for an image in a new directory")
	}
}

// syncBuffer guards a buffer written by Run's goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRun_ReingestsKeepingHistory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "beach.jpg"), []byte("x"), 0644))
	require.NoError(t, catalog.Init(false, "", false, root))
	svc, err := catalog.Open(filepath.Join(root, repo.Dir, repo.DBFile), nil)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, err = svc.Ingest(ctx, io.Discard, root, ingest.Options{})
	require.NoError(t, err)
	img, err := svc.AddTags(ctx, filepath.Join(root, "beach.jpg"), "sea")
	require.NoError(t, err)

	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- watcher.Run(ctx, out, svc, watcher.Config{Root: root, Debounce: 30 * time.Millisecond, SkipDirs: []string{repo.Dir}})
	}()

	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(out.String()), []byte("Watching"))
	}, time.Second, 10*time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(root, "city.png"), []byte("x"), 0644))

	require.Eventually(t, func() bool {
		imgs, err := svc.Images(ctx, root)
		return err == nil && len(imgs) == 2
	}, 2*time.Second, 20*time.Millisecond)

	again, err := svc.Resolve(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, img.Versions, again.Versions)
	assert.Equal(t, []string{"sea"}, again.Tags)

	cancel()
	assert.NoError(t, <-done)
	assert.Contains(t, out.String(), "Re-ingested")
}
