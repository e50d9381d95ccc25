// Package open hands image files and folders to the platform's default
// viewer. The command used per platform lives in the build-tagged files.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/jpl-au/imgtag/internal/validate"
)

// start runs cmd without waiting for the viewer to exit. Tests replace it.
var start = func(cmd *exec.Cmd) error {
	return cmd.Start()
}

// Path opens the file or directory at p.
func Path(p string) error {
	abs, err := filepath.Abs(p)
	if err != nil {
		return fmt.Errorf("%w: %s", validate.ErrNotFound, p)
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("%w: %s", validate.ErrNotFound, p)
	}
	if err := start(command(abs)); err != nil {
		return fmt.Errorf("opening %s: %w", abs, err)
	}
	return nil
}

// Folder opens the directory containing the file at p.
func Folder(p string) error {
	return Path(filepath.Dir(p))
}
