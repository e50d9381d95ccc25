// Package format provides output formatting utilities for CLI display.
//
// Centralises presentation so command implementations focus on calling the
// service: column alignment, tree rendering and size formatting live here.
package format

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jpl-au/imgtag/internal/service"
	"github.com/jpl-au/imgtag/internal/store"
)

// humanSize formats a byte count as human-readable (e.g., "1.2K", "3.4M").
func humanSize(bytes int64) string {
	const (
		_        = iota
		KB int64 = 1 << (10 * iota)
		MB
		GB
	)
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1fG", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1fM", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1fK", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}

// pendingMark flags images whose file has not been renamed yet.
func pendingMark(img service.Image) string {
	if img.Pending {
		return " [pending]"
	}
	return ""
}

// List prints images in simple list format.
func List(w io.Writer, imgs []service.Image) error {
	for _, img := range imgs {
		fmt.Fprintf(w, "%s  %s%s\n", img.ID, img.Name, pendingMark(img))
	}
	return nil
}

// Long prints images with ID, version count, tag count and directory.
//
// Fixed-width columns come first; NAME and DIR vary in width and go last.
func Long(w io.Writer, imgs []service.Image) error {
	if len(imgs) == 0 {
		return nil
	}

	maxName := 4 // "NAME"
	for _, img := range imgs {
		maxName = max(maxName, len(img.Name))
	}

	fmt.Fprintf(w, "%-8s  %4s  %4s  %-*s  %s\n", "ID", "VER", "TAGS", maxName, "NAME", "DIR")
	for _, img := range imgs {
		fmt.Fprintf(w, "%-8s  %4d  %4d  %-*s  %s%s\n",
			img.ID, img.Versions, len(img.Tags), maxName, img.Name, img.Dir, pendingMark(img))
	}
	return nil
}

// Tree prints images as a directory tree relative to root.
func Tree(w io.Writer, root string, imgs []service.Image) error {
	if len(imgs) == 0 {
		return nil
	}

	type node struct {
		children map[string]*node
		isImage  bool
		pending  bool
	}

	top := &node{children: make(map[string]*node)}
	for _, img := range imgs {
		rel, err := filepath.Rel(root, filepath.Join(img.Dir, img.Name))
		if err != nil || strings.HasPrefix(rel, "..") {
			rel = filepath.Join(img.Dir, img.Name)
		}
		current := top
		parts := strings.Split(filepath.ToSlash(rel), "/")
		for i, part := range parts {
			if current.children[part] == nil {
				current.children[part] = &node{children: make(map[string]*node)}
			}
			current = current.children[part]
			if i == len(parts)-1 {
				current.isImage = true
				current.pending = img.Pending
			}
		}
	}

	var printNode func(n *node, prefix string)
	printNode = func(n *node, prefix string) {
		names := make([]string, 0, len(n.children))
		for name := range n.children {
			names = append(names, name)
		}
		sort.Strings(names)

		for i, name := range names {
			child := n.children[name]
			last := i == len(names)-1

			connector := "├── "
			if last {
				connector = "└── "
			}
			suffix := ""
			if !child.isImage {
				suffix = "/"
			}
			if child.pending {
				suffix += " [pending]"
			}
			fmt.Fprintf(w, "%s%s%s%s\n", prefix, connector, name, suffix)

			pfx := prefix + "│   "
			if last {
				pfx = prefix + "    "
			}
			if len(child.children) > 0 {
				printNode(child, pfx)
			}
		}
	}

	printNode(top, "")
	return nil
}

// Directories prints directory indexes with their image counts.
func Directories(w io.Writer, dirs []service.Directory) error {
	maxName := 4
	for _, d := range dirs {
		maxName = max(maxName, len(d.Name))
	}
	for _, d := range dirs {
		fmt.Fprintf(w, "%-*s  %5d  %s\n", maxName, d.Name, d.Images, d.Path)
	}
	return nil
}

// Tags prints tags with their image counts.
func Tags(w io.Writer, tags []service.TagInfo) error {
	for _, t := range tags {
		fmt.Fprintf(w, "@%s (%d)\n", t.Name, t.Images)
	}
	return nil
}

// History prints numbered history lines; the number is the version index
// accepted by revert and diff.
func History(w io.Writer, lines []string, first int) error {
	for i, l := range lines {
		fmt.Fprintf(w, "%3d  %s\n", first+i, l)
	}
	return nil
}

// Stats prints aggregate catalogue counts.
func Stats(w io.Writer, st *store.Stats) error {
	fmt.Fprintf(w, "Directories: %d\n", st.Directories)
	fmt.Fprintf(w, "Images:      %d\n", st.Images)
	fmt.Fprintf(w, "Tags:        %d\n", st.Tags)
	fmt.Fprintf(w, "Versions:    %d\n", st.Versions)
	fmt.Fprintf(w, "Pending:     %d\n", st.Pending)
	fmt.Fprintf(w, "Size:        %s\n", humanSize(st.SizeBytes))
	return nil
}

// Paths prints just image file paths, one per line.
func Paths(w io.Writer, imgs []service.Image) error {
	for _, img := range imgs {
		fmt.Fprintln(w, img.Path)
	}
	return nil
}
