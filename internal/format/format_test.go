package format

import (
	"bytes"
	"testing"

	"github.com/jpl-au/imgtag/internal/service"
	"github.com/jpl-au/imgtag/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "512B", humanSize(512))
	assert.Equal(t, "1.5K", humanSize(1536))
	assert.Equal(t, "2.0M", humanSize(2<<20))
	assert.Equal(t, "1.0G", humanSize(1<<30))
}

func TestTree(t *testing.T) {
	imgs := []service.Image{
		{Dir: "/p", Name: "b @x.jpg"},
		{Dir: "/p/2024", Name: "a.png", Pending: true},
	}
	var buf bytes.Buffer
	assert.NoError(t, Tree(&buf, "/p", imgs))
	assert.Equal(t, "├── 2024/\n│   └── a.png [pending]\n└── b @x.jpg\n", buf.String())
}

func TestLong(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Long(&buf, []service.Image{{ID: "abcdefgh", Name: "a @x.jpg", Dir: "/p", Tags: []string{"x"}, Versions: 2}}))
	assert.Contains(t, buf.String(), "ID")
	assert.Contains(t, buf.String(), "abcdefgh     2     1  a @x.jpg  /p")
}

func TestHistoryAndStats(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, History(&buf, []string{"t1: a.jpg", "t2: a @x.jpg"}, 0))
	assert.Equal(t, "  0  t1: a.jpg\n  1  t2: a @x.jpg\n", buf.String())

	buf.Reset()
	assert.NoError(t, Stats(&buf, &store.Stats{Images: 3, SizeBytes: 2048}))
	assert.Contains(t, buf.String(), "Images:      3")
	assert.Contains(t, buf.String(), "Size:        2.0K")
}
