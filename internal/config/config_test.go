package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	var c Config
	assert.Equal(t, DefaultMaxDepth, c.MaxDepth())
	assert.False(t, c.SkipHidden())
	assert.Equal(t, DefaultDebounce, c.Debounce())
	assert.Equal(t, DefaultTimeFormat, c.TimeFormat())
	for _, k := range ValidKeys() {
		assert.False(t, c.IsSet(k), k)
	}
}

func TestConfig_SetGet(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"author.name", "Ada", "Ada"},
		{"ingest.max_depth", "12", "12"},
		{"ingest.skip_hidden", "TRUE", "true"},
		{"watch.debounce", "1s", "1s"},
		{"history.time_format", "2006-01-02", "2006-01-02"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			var c Config
			require.NoError(t, c.Set(tt.key, tt.value))
			got, err := c.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, c.IsSet(tt.key))
		})
	}
}

func TestConfig_SetRejectsInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"ingest.max_depth", "0"},
		{"ingest.max_depth", "many"},
		{"ingest.skip_hidden", "yes"},
		{"watch.debounce", "soon"},
		{"watch.debounce", "1h"},
		{"history.time_format", "  "},
	}
	for _, tt := range tests {
		var c Config
		assert.ErrorIs(t, c.Set(tt.key, tt.value), ErrInvalidValue, "%s=%s", tt.key, tt.value)
	}

	var c Config
	assert.ErrorIs(t, c.Set("sync.files", "true"), ErrUnknownKey)
	_, err := c.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestConfig_LocalOverridesGlobal(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	work := t.TempDir()
	t.Chdir(work)

	global := &Config{scope: ScopeGlobal}
	require.NoError(t, global.Set("watch.debounce", "2s"))
	require.NoError(t, global.Save())
	require.FileExists(t, filepath.Join(home, ".imgtag", "config.yaml"))

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, c.Debounce())

	local := &Config{scope: ScopeLocal}
	require.NoError(t, local.Set("ingest.max_depth", "3"))
	require.NoError(t, local.Save())

	c, err = Load()
	require.NoError(t, err)
	assert.Equal(t, ScopeLocal, c.Scope())
	assert.Equal(t, 3, c.MaxDepth())
	assert.Equal(t, DefaultDebounce, c.Debounce(), "local config does not merge global values")
}

func TestConfig_LoadRejectsMalformed(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.MkdirAll(".imgtag", 0755))
	require.NoError(t, os.WriteFile(LocalPath(), []byte("ingest:\n  max_depth: -4\n"), 0644))

	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalidValue)
}
