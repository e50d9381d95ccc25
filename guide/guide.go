// Package guide embeds the help pages shown by "imgtag guide" and the
// imgtag_guide MCP tool.
package guide

import (
	"embed"
	"runtime"
	"slices"
	"strings"
)

//go:embed *.md
var files embed.FS

// Get returns the page called name, or the index when name is empty.
// "install" selects the page for the running OS, falling back to Linux.
func Get(name string) (string, error) {
	if name == "" {
		name = "guide"
	}
	if name == "install" {
		name = "install-" + runtime.GOOS
		if _, err := files.Open(name + ".md"); err != nil {
			name = "install-linux"
		}
	}
	data, err := files.ReadFile(name + ".md")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// List returns the topic names, without the index page. The per-OS install
// pages are listed once as "install".
func List() ([]string, error) {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".md")
		if strings.HasPrefix(name, "install-") {
			name = "install"
		}
		if name != "guide" && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names, nil
}
