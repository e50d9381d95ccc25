//go:build !windows

// dir_unix.go provides directory key normalisation on Unix systems, where
// path comparison is case-sensitive.

package filename

import "path/filepath"

// DirKey returns the form of dir used to compare directory identities.
func DirKey(dir string) string {
	return filepath.Clean(dir)
}
