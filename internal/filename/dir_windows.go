//go:build windows

// dir_windows.go provides directory key normalisation on Windows.
//
// NTFS is case-insensitive by default, so C:\Photos and c:\photos name the
// same directory. Comparing lowercased keys keeps one directory index per
// physical directory.

package filename

import (
	"path/filepath"
	"strings"
)

// DirKey returns the form of dir used to compare directory identities.
func DirKey(dir string) string {
	return strings.ToLower(filepath.Clean(dir))
}
