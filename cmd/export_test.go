package cmd

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestExport(t *testing.T) {
	env := newTestEnv(t, "beach @sea.jpg", "2024/park.gif")
	env.run("tag", "add", "2024/park", "tree")

	out := env.run("export", "--history")
	env.contains(out, "Exported 2 images")
	env.exists("imgtag-manifest.yaml")

	data, err := os.ReadFile(env.path("imgtag-manifest.yaml"))
	require.NoError(t, err)
	var m struct {
		Tags   []map[string]any `yaml:"tags"`
		Images []struct {
			Name    string           `yaml:"name"`
			History []map[string]any `yaml:"history"`
		} `yaml:"images"`
	}
	require.NoError(t, yaml.Unmarshal(data, &m))
	require.Len(t, m.Images, 2)
	assert.Len(t, m.Tags, 2)

	byName := map[string]int{}
	for _, img := range m.Images {
		byName[img.Name] = len(img.History)
	}
	assert.Equal(t, 2, byName["park @tree.gif"])

	_, err = env.runErr("export")
	assert.Error(t, err, "existing manifest is kept")
	env.run("export", "--force")
}

func TestExport_OneDirectory(t *testing.T) {
	env := newTestEnv(t, "beach.jpg", "2024/park.gif")

	env.run("export", "out.yaml", "--only", "2024")
	data, err := os.ReadFile(env.path("out.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "park.gif")
	assert.NotContains(t, string(data), "beach.jpg")
}
