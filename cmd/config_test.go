package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig(t *testing.T) {
	t.Run("lists every key", func(t *testing.T) {
		env := newTestEnv(t)
		out := env.run("config")
		for _, k := range []string{"author.name", "ingest.max_depth", "ingest.skip_hidden", "watch.debounce", "history.time_format"} {
			env.contains(out, k)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		env := newTestEnv(t)
		env.equals(env.run("config", "watch.debounce"), "300ms")
		env.equals(env.run("config", "ingest.max_depth"), "100")
	})
}

func TestConfig_Set(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"author name", "author.name", "Ada"},
		{"max depth", "ingest.max_depth", "5"},
		{"skip hidden", "ingest.skip_hidden", "true"},
		{"debounce", "watch.debounce", "1s"},
		{"time format", "history.time_format", "2006-01-02"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.run("config", tc.key, tc.value)
			env.equals(env.run("config", tc.key), tc.value)
		})
	}
}

func TestConfig_Errors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"config", "nope.key", "x"}},
		{"unknown get", []string{"config", "nope.key"}},
		{"depth not a number", []string{"config", "ingest.max_depth", "deep"}},
		{"depth out of range", []string{"config", "ingest.max_depth", "0"}},
		{"bad debounce", []string{"config", "watch.debounce", "soon"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.runErr(tc.args...)
			assert.Error(t, err)
		})
	}
}

func TestConfig_AffectsHistory(t *testing.T) {
	env := newTestEnv(t, "beach.jpg")
	env.run("config", "history.time_format", "2006")
	env.run("tag", "add", "beach", "sea")

	out := env.run("history", "beach")
	env.contains(out, ": beach @sea.jpg")
	env.notContains(out, "T")
}
