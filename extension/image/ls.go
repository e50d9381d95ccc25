// ls.go implements "imgtag ls" and "imgtag dirs".
//
// ls prints one "ID  name" line per image. -l adds version and tag counts,
// -t groups by directory and -p prints bare paths for piping.

package image

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jpl-au/imgtag/cmd"
	"github.com/jpl-au/imgtag/extension"
	"github.com/jpl-au/imgtag/internal/format"
	"github.com/jpl-au/imgtag/internal/log"
	"github.com/jpl-au/imgtag/internal/service"
)

func (e *Extension) newLsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "ls [dir]",
		Short: "List images",
		Long: `List images with their canonical names, optionally limited to one
directory or one tag. Pending images are those whose file has not been
renamed to match their tags yet.`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runLs,
	}
	c.Flags().BoolP(extension.FlagLong, "l", false, "Long format with ID, versions and tags")
	c.Flags().BoolP(extension.FlagTree, "t", false, "Group by directory")
	c.Flags().BoolP(extension.FlagPaths, "p", false, "Print full file paths")
	c.Flags().Bool(extension.FlagPending, false, "Only images awaiting a rename")
	c.Flags().String(extension.FlagTag, "", "Only images carrying this tag")
	return c
}

func (e *Extension) runLs(c *cobra.Command, args []string) error {
	ctx := c.Context()
	dir := ""
	if len(args) > 0 {
		var err error
		if dir, err = filepath.Abs(args[0]); err != nil {
			return cmd.PrintJSONError(fmt.Errorf("ls %q: %w", args[0], err))
		}
	}
	long, _ := c.Flags().GetBool(extension.FlagLong)
	tree, _ := c.Flags().GetBool(extension.FlagTree)
	paths, _ := c.Flags().GetBool(extension.FlagPaths)
	pending, _ := c.Flags().GetBool(extension.FlagPending)
	tag, _ := c.Flags().GetString(extension.FlagTag)

	imgs, err := e.list(ctx, dir, tag, pending)

	log.Event("image:ls", "list").
		Author(cmd.Author()).
		Path(dir).
		Detail("tag", tag).
		Detail("count", len(imgs)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("ls: %w", err))
	}
	if cmd.JSON() {
		return cmd.PrintJSON(imgs)
	}

	w := cmd.Out()
	switch {
	case tree:
		root := dir
		if root == "" {
			root = e.svc.LastDirectory(ctx)
		}
		return format.Tree(w, root, imgs)
	case long:
		return format.Long(w, imgs)
	case paths:
		return format.Paths(w, imgs)
	default:
		return format.List(w, imgs)
	}
}

// list applies the ls filters. A tag filter narrows the directory listing
// rather than replacing it.
func (e *Extension) list(ctx context.Context, dir, tag string, pending bool) ([]service.Image, error) {
	var (
		imgs []service.Image
		err  error
	)
	switch {
	case pending:
		imgs = e.svc.Pending(ctx)
	case tag != "":
		imgs, err = e.svc.TaggedImages(ctx, tag)
	default:
		return orEmpty(e.svc.Images(ctx, dir))
	}
	if err != nil {
		return nil, err
	}
	if dir != "" {
		imgs = filterDir(imgs, dir)
	}
	if pending && tag != "" {
		imgs = filterTag(imgs, tag)
	}
	return orEmpty(imgs, nil)
}

func filterDir(imgs []service.Image, dir string) []service.Image {
	var out []service.Image
	for _, img := range imgs {
		if img.Dir == dir {
			out = append(out, img)
		}
	}
	return out
}

func filterTag(imgs []service.Image, tag string) []service.Image {
	var out []service.Image
	for _, img := range imgs {
		for _, t := range img.Tags {
			if t == tag || "@"+t == tag {
				out = append(out, img)
				break
			}
		}
	}
	return out
}

func orEmpty(imgs []service.Image, err error) ([]service.Image, error) {
	if imgs == nil && err == nil {
		imgs = []service.Image{}
	}
	return imgs, err
}

func (e *Extension) newDirsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dirs",
		Short: "List scanned directories",
		Long:  `List every directory index with its display name, path and image count.`,
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			dirs := e.svc.Directories(c.Context())

			log.Event("image:dirs", "list").Author(cmd.Author()).Detail("count", len(dirs)).Write(nil)

			if cmd.JSON() {
				if dirs == nil {
					dirs = []service.Directory{}
				}
				return cmd.PrintJSON(dirs)
			}
			return format.Directories(cmd.Out(), dirs)
		},
	}
}
