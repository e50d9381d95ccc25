package validate

import (
	"fmt"
	"os"
	"path/filepath"
)

// Directory resolves p to an absolute, cleaned path and checks that it
// names an existing directory. Symlinks are followed for the check but the
// returned path keeps the caller's spelling.
func Directory(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidDirectory)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidDirectory, p, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidDirectory, abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrInvalidDirectory, abs)
	}
	return abs, nil
}
