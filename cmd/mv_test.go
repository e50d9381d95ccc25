package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMv(t *testing.T) {
	env := newTestEnv(t, "beach @sea.jpg", "archive/old.png")

	out := env.run("mv", "beach", "archive")
	env.contains(out, "Moved")
	env.exists("archive/beach @sea.jpg")
	env.missing("beach @sea.jpg")

	out = env.run("ls", "archive")
	env.contains(out, "beach @sea.jpg")
	env.contains(out, "old.png")

	// tags and history travel with the image
	out = env.run("history", "archive/beach")
	env.contains(out, "beach @sea.jpg")

	_, err := env.runErr("mv", "archive/beach", "nowhere")
	assert.Error(t, err)
}
