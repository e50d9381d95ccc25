//go:build !darwin && !windows

// open_unix.go opens files on Linux and the BSDs through the freedesktop
// launcher.

package open

import "os/exec"

func command(path string) *exec.Cmd {
	return exec.Command("xdg-open", path)
}
