// sync_fs.go provides the low-level file moves behind Engine.
//
// Separated from sync.go to isolate OS behaviour: refusing to overwrite,
// case-only renames on case-insensitive filesystems and the copy fallback
// for moves across devices.

package sync

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"syscall"
)

// renameInDir renames oldName to newName inside dir. An existing file at
// newName is never overwritten unless it is oldName itself (a case-only
// rename on a case-insensitive filesystem).
func renameInDir(dir, oldName, newName string) error {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return err
	}
	defer root.Close()

	oldInfo, err := root.Lstat(oldName)
	if err != nil {
		return err
	}
	if newInfo, err := root.Lstat(newName); err == nil {
		if !os.SameFile(oldInfo, newInfo) {
			return fmt.Errorf("%s: %w", newName, fs.ErrExist)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return root.Rename(oldName, newName)
}

// moveFile moves src to dst, refusing to overwrite dst. Moves across
// devices fall back to copy and remove.
func moveFile(src, dst string) error {
	if exists(dst) {
		return fmt.Errorf("%s: %w", dst, fs.ErrExist)
	}
	err := os.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("removing source: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return nil
}
