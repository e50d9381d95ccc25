package log

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTempDB points the logger at a fresh database for the test.
func useTempDB(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	orig := dbPathFunc
	dbPathFunc = func() string {
		return filepath.Join(tmpDir, "log", "test.db")
	}
	t.Cleanup(func() {
		Close()
		dbPathFunc = orig
	})
	require.NoError(t, Open())
}

func TestLogger_OpenCreatesDatabase(t *testing.T) {
	useTempDB(t)
	assert.FileExists(t, DBPath())
	require.NoError(t, Open(), "second open is a no-op")
}

func TestLogger_WritesEntry(t *testing.T) {
	useTempDB(t)
	SetProject("/photos/.imgtag")

	Event("tag:add", "add").
		Author("tester").
		Image("beach.jpg").
		Resolved("ABCDEFGH").
		Path("/photos/beach.jpg").
		Detail("tags", []string{"sea"}).
		Write(nil)

	db, err := sql.Open("sqlite", DBPath())
	require.NoError(t, err)
	defer db.Close()

	var source, action, image, resolved string
	var success int
	var index sql.NullInt64
	err = db.QueryRow(`SELECT source, action, image, resolved_image, success, version_index FROM log`).
		Scan(&source, &action, &image, &resolved, &success, &index)
	require.NoError(t, err)
	assert.Equal(t, "tag:add", source)
	assert.Equal(t, "add", action)
	assert.Equal(t, "beach.jpg", image)
	assert.Equal(t, "ABCDEFGH", resolved)
	assert.Equal(t, 1, success)
	assert.False(t, index.Valid, "index is NULL unless set")
}

func TestLogger_Recent(t *testing.T) {
	useTempDB(t)

	SetProject("/other/.imgtag")
	Event("image:mv", "move").Resolved("AAAAAAAA").Write(nil)

	SetProject("/photos/.imgtag")
	Event("image:revert", "revert").Resolved("BBBBBBBB").Index(0).Write(nil)
	Event("image:revert", "revert").Resolved("BBBBBBBB").Index(9).Write(errors.New("index out of range"))
	Event("image:flush", "rename").Detail("renamed", 2).Write(nil)

	recs, err := Recent(Filter{})
	require.NoError(t, err)
	require.Len(t, recs, 3, "only the current catalogue")
	assert.Equal(t, "image:flush", recs[0].Source, "newest first")
	assert.EqualValues(t, 2, recs[0].Detail["renamed"])
	assert.False(t, recs[1].Success)
	assert.Equal(t, "index out of range", recs[1].Error)

	recs, err = Recent(Filter{Image: "BBBBBBBB", Limit: 1})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "BBBBBBBB", recs[0].Image)

	recs, err = Recent(Filter{AllRepo: true})
	require.NoError(t, err)
	assert.Len(t, recs, 4)
}

func TestLogger_ClosedIsNoop(t *testing.T) {
	Close()
	Event("tag:add", "add").Write(nil)
	_, err := Recent(Filter{})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestHash(t *testing.T) {
	a := hash("/photos/.imgtag")
	assert.Len(t, a, 16)
	assert.Equal(t, a, hash("/photos/.imgtag"))
	assert.NotEqual(t, a, hash("/other/.imgtag"))
}
