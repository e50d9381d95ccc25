package cmd

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlush(t *testing.T) {
	env := newTestEnv(t, "beach.jpg")
	env.write("beach @sea.jpg")
	// the blocker is not in the catalogue until the next scan

	_, err := env.runErr("tag", "add", "beach.jpg", "sea")
	assert.Error(t, err, "rename onto an existing file fails")
	env.exists("beach.jpg")

	out := env.run("ls", "--pending")
	env.contains(out, "[pending]")

	out, err = env.runErr("flush")
	assert.Error(t, err, "still blocked")
	env.notContains(out, "Renamed")

	require.NoError(t, os.Remove(env.path("beach @sea.jpg")))
	out = env.run("flush")
	env.contains(out, "Renamed: beach.jpg -> beach @sea.jpg")
	env.exists("beach @sea.jpg")

	out = env.run("ls", "--pending")
	env.notContains(out, "beach")

	out = env.run("flush")
	env.contains(out, "Nothing to rename")
}
