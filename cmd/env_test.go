// The cmd package tests run the built binary against temporary photo trees:
// command parsing -> catalogue service -> registry -> SQLite and the
// file system. HOME is pointed at a temp dir so global config and the
// audit log stay out of the user's.

package cmd

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary compiles the imgtag binary once for all tests.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "imgtag-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}

		binaryName := "imgtag"
		if os.PathSeparator == '\\' {
			binaryName = "imgtag.exe"
		}
		binaryPath = filepath.Join(tmpDir, binaryName)

		projectRoot := filepath.Dir(mustGetwd())
		cmd := exec.Command("go", "build", "-o", binaryPath, ".")
		cmd.Dir = projectRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
			return
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return binaryPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

func mustGetwd() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return dir
}

// testEnv holds test environment state.
type testEnv struct {
	t      *testing.T
	dir    string
	home   string
	binary string
}

// newTestEnv creates a temporary photo tree holding files, runs init and
// scans it.
func newTestEnv(t *testing.T, files ...string) *testEnv {
	t.Helper()
	env := newBareEnv(t, files...)
	env.run("init")
	env.run("scan", ".")
	return env
}

// newBareEnv creates the photo tree without a catalogue.
func newBareEnv(t *testing.T, files ...string) *testEnv {
	t.Helper()
	env := &testEnv{t: t, dir: t.TempDir(), home: t.TempDir(), binary: buildBinary(t)}
	for _, f := range files {
		env.write(f)
	}
	return env
}

// write creates an image file (any content will do) below the tree.
func (e *testEnv) write(rel string) {
	e.t.Helper()
	p := e.path(rel)
	require.NoError(e.t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(e.t, os.WriteFile(p, []byte(rel), 0644))
}

func (e *testEnv) path(rel string) string {
	return filepath.Join(e.dir, filepath.FromSlash(rel))
}

// run executes imgtag with the given args and returns its output.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	if err != nil {
		e.t.Fatalf("imgtag %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes imgtag and returns its combined output and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()
	out, err := e.command(args...).CombinedOutput()
	return string(out), err
}

// runJSON executes imgtag with -o json and decodes stdout into v.
func (e *testEnv) runJSON(v any, args ...string) {
	e.t.Helper()
	out, err := e.command(append(args, "-o", "json")...).Output()
	require.NoError(e.t, err, string(out))
	require.NoError(e.t, json.Unmarshal(out, v), string(out))
}

func (e *testEnv) command(args ...string) *exec.Cmd {
	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	cmd.Env = append(os.Environ(), "HOME="+e.home, "USERPROFILE="+e.home, "IMGTAG_DB=", "IMGTAG_DIR=")
	return cmd
}

func (e *testEnv) contains(output, expected string) {
	e.t.Helper()
	assert.Contains(e.t, output, expected)
}

func (e *testEnv) notContains(output, unexpected string) {
	e.t.Helper()
	assert.NotContains(e.t, output, unexpected)
}

func (e *testEnv) equals(output, expected string) {
	e.t.Helper()
	assert.Equal(e.t, strings.TrimSpace(expected), strings.TrimSpace(output))
}

func (e *testEnv) exists(rel string) {
	e.t.Helper()
	assert.FileExists(e.t, e.path(rel))
}

func (e *testEnv) missing(rel string) {
	e.t.Helper()
	assert.NoFileExists(e.t, e.path(rel))
}
