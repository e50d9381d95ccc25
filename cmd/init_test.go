package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	t.Run("creates catalogue", func(t *testing.T) {
		env := newBareEnv(t)
		out := env.run("init")
		env.contains(out, "Initialised imgtag catalogue")
		env.exists(".imgtag/imgtag.db")
	})

	t.Run("refuses to reinitialise", func(t *testing.T) {
		env := newBareEnv(t)
		env.run("init")

		out, err := env.runErr("init")
		assert.Error(t, err)
		env.contains(out, "already exists")

		env.run("init", "--force")
	})

	t.Run("named database", func(t *testing.T) {
		env := newBareEnv(t)
		env.run("init", "--db", "holidays")
		env.exists(".imgtag/imgtag-holidays.db")
		env.missing(".imgtag/imgtag.db")
	})

	t.Run("commands need a catalogue", func(t *testing.T) {
		env := newBareEnv(t, "beach.jpg")
		out, err := env.runErr("ls")
		assert.Error(t, err)
		env.contains(out, "not initialised")
	})

	t.Run("guide works without a catalogue", func(t *testing.T) {
		env := newBareEnv(t)
		out := env.run("guide")
		env.contains(out, "imgtag")
	})
}

func TestDB(t *testing.T) {
	env := newBareEnv(t)
	env.run("init")
	env.run("init", "--db", "scratch")

	out := env.run("db")
	env.contains(out, "imgtag.db")
	env.contains(out, "imgtag-scratch.db")

	env.run("db", "scratch", "--local")
	out = env.run("db", "scratch")
	env.contains(out, "imgtag-scratch.db: local")

	env.run("db", "scratch", "--share")
	out = env.run("db", "scratch")
	env.contains(out, "imgtag-scratch.db: shared")
}
