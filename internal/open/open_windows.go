//go:build windows

// open_windows.go opens files through Explorer. Explorer exits with status 1
// even on success, so only failures to launch are reported.

package open

import "os/exec"

func command(path string) *exec.Cmd {
	return exec.Command("explorer", path)
}
