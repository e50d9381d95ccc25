// repo_gitignore.go marks catalogue databases local or shared.
//
// A local database is listed in .imgtag/.gitignore below localHeader. Lines
// outside that block are never touched.

package repo

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const localHeader = "# Local catalogues (not committed)"

// ignoreFile returns the .gitignore path of dir, discovering .imgtag when
// dir is empty.
func ignoreFile(dir string) (string, error) {
	if dir == "" {
		var err error
		if dir, err = DiscoverDir(); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, ".gitignore"), nil
}

func readLines(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimRight(string(b), "\n"), "\n"), nil
}

func writeLines(path string, lines []string) error {
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}

// IgnoreDB marks database name as local.
func IgnoreDB(name, dir string) error {
	path, err := ignoreFile(dir)
	if err != nil {
		return err
	}
	lines, err := readLines(path)
	if err != nil {
		return err
	}
	file := DBFileName(name)
	if slices.Contains(lines, file) {
		return nil
	}
	if !slices.Contains(lines, localHeader) {
		lines = append(lines, "", localHeader)
	}
	return writeLines(path, append(lines, file))
}

// UnignoreDB marks database name as shared. The local block header goes
// once no database is listed below it.
func UnignoreDB(name, dir string) error {
	path, err := ignoreFile(dir)
	if err != nil {
		return err
	}
	lines, err := readLines(path)
	if err != nil {
		return err
	}
	file := DBFileName(name)
	lines = slices.DeleteFunc(lines, func(l string) bool { return strings.TrimSpace(l) == file })

	if i := slices.Index(lines, localHeader); i >= 0 {
		rest := lines[i+1:]
		if !slices.ContainsFunc(rest, func(l string) bool { return strings.HasSuffix(strings.TrimSpace(l), ".db") }) {
			lines = lines[:i]
			for len(lines) > 0 && lines[len(lines)-1] == "" {
				lines = lines[:len(lines)-1]
			}
		}
	}
	return writeLines(path, lines)
}

// IsIgnored reports whether database name is local.
func IsIgnored(name, dir string) (bool, error) {
	path, err := ignoreFile(dir)
	if err != nil {
		return false, err
	}
	lines, err := readLines(path)
	if err != nil {
		return false, err
	}
	file := DBFileName(name)
	return slices.ContainsFunc(lines, func(l string) bool { return strings.TrimSpace(l) == file }), nil
}
