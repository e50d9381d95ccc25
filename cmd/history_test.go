package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tagged returns an environment where beach.jpg went through three versions:
// beach.jpg, beach @sea.jpg, beach @sea @sun.jpg.
func tagged(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t, "beach.jpg")
	env.run("tag", "add", "beach", "sea")
	env.run("tag", "add", "beach", "sun")
	return env
}

func TestHistory(t *testing.T) {
	env := tagged(t)

	t.Run("names", func(t *testing.T) {
		out := env.run("history", "beach")
		env.contains(out, "0  ")
		env.contains(out, "beach.jpg")
		env.contains(out, "beach @sea.jpg")
		env.contains(out, "beach @sea @sun.jpg")
	})

	t.Run("changes", func(t *testing.T) {
		out := env.run("history", "beach", "--changes")
		env.contains(out, "beach.jpg -> beach @sea.jpg")
		env.contains(out, "beach @sea.jpg -> beach @sea @sun.jpg")
	})

	t.Run("limit", func(t *testing.T) {
		out := env.run("history", "beach", "-n", "1")
		env.contains(out, "beach @sea @sun.jpg")
		env.notContains(out, "beach.jpg")
	})

	t.Run("json", func(t *testing.T) {
		var res struct {
			ID       string `json:"id"`
			Versions []struct {
				Index int    `json:"index"`
				Name  string `json:"name"`
			} `json:"versions"`
		}
		env.runJSON(&res, "history", "beach")
		assert.Len(t, res.ID, 8)
		require.Len(t, res.Versions, 3)
		assert.Equal(t, "beach @sea.jpg", res.Versions[1].Name)
	})
}

func TestRevert(t *testing.T) {
	env := tagged(t)

	out := env.run("revert", "beach", "1")
	env.contains(out, "Reverted")
	env.exists("beach @sea.jpg")
	env.missing("beach @sea @sun.jpg")

	out = env.run("history", "beach")
	env.contains(out, "3  ")

	_, err := env.runErr("revert", "beach", "9")
	assert.Error(t, err)
	_, err = env.runErr("revert", "beach", "one")
	assert.Error(t, err)
}

func TestDiff(t *testing.T) {
	env := tagged(t)

	out := env.run("diff", "beach")
	env.contains(out, "+ sun")
	env.notContains(out, "+ sea")

	out = env.run("diff", "beach", "0", "2")
	env.contains(out, "+ sea")
	env.contains(out, "+ sun")

	out = env.run("diff", "beach", "-v", "2:0")
	env.contains(out, "- sea")

	_, err := env.runErr("diff", "beach", "0", "-v", "0:1")
	assert.Error(t, err)
}
