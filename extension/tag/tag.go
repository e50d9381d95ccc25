// Package tag provides the tag extension for imgtag.
// It registers the tag command with subcommands add, rm, ls, images,
// create and delete.
package tag

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jpl-au/imgtag/cmd"
	"github.com/jpl-au/imgtag/extension"
	"github.com/jpl-au/imgtag/internal/log"
	"github.com/jpl-au/imgtag/internal/service"
	"github.com/jpl-au/imgtag/internal/tag"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the tag extension.
type Extension struct {
	svc service.Service
}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
	_ extension.EventHandler  = (*Extension)(nil)
)

// Name returns "tag".
func (e *Extension) Name() string { return "tag" }

// Init receives the shared service from the extension context.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	return nil
}

// Commands returns the tag command with its subcommands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{e.newTagCmd()}
}

// MCPTools returns nil. Tagging tools are in internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}

// HandleEvent records renames and tag deletions in the event log, so
// "imgtag log" shows file system effects next to the commands that
// caused them.
func (e *Extension) HandleEvent(_ extension.Context, evt extension.Event) error {
	switch ev := evt.(type) {
	case extension.RenameEvent:
		log.Event("tag:observed_rename", "event").
			Resolved(ev.ImageID).
			Path(ev.To).
			Detail("from", ev.From).
			Write(nil)
	case extension.TagDeleteEvent:
		log.Event("tag:observed_delete", "event").
			Detail("tag", ev.Tag).
			Detail("images", len(ev.Images)).
			Write(nil)
	}
	return nil
}

func (e *Extension) newTagCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "tag",
		Short: "Manage image tags",
		Long: `Add, remove and list the tags of images. Tags live in the file name:
"beach @sea @sun.jpg" carries the tags sea and sun.`,
	}
	c.AddCommand(
		e.newAddCmd(),
		e.newRmCmd(),
		e.newLsCmd(),
		e.newImagesCmd(),
		e.newCreateCmd(),
		e.newDeleteCmd(),
	)
	return c
}

func (e *Extension) newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <image> <tag>...",
		Short: "Add tags to an image",
		Args:  cobra.MinimumNArgs(2),
		RunE:  e.runAdd,
	}
}

func (e *Extension) newRmCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "rm <image> [tag]...",
		Short: "Remove tags from an image",
		Args:  cobra.MinimumNArgs(1),
		RunE:  e.runRm,
	}
	c.Flags().BoolP(extension.FlagAll, "a", false, "Remove every tag")
	return c
}

func (e *Extension) newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [image]",
		Short: "List the tags of an image, or every tag",
		Args:  cobra.MaximumNArgs(1),
		RunE:  e.runLs,
	}
}

func (e *Extension) newImagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "images <tag>",
		Short: "List the images carrying a tag",
		Args:  cobra.ExactArgs(1),
		RunE:  e.runImages,
	}
}

func (e *Extension) newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <tag>",
		Short: "Create a tag without attaching it",
		Args:  cobra.ExactArgs(1),
		RunE:  e.runCreate,
	}
}

func (e *Extension) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <tag>",
		Short: "Delete a tag and strip it from every image",
		Args:  cobra.ExactArgs(1),
		RunE:  e.runDelete,
	}
}

func out() io.Writer {
	if cmd.JSON() {
		return io.Discard
	}
	return cmd.Out()
}

func (e *Extension) runAdd(c *cobra.Command, args []string) error {
	ref, tags := args[0], args[1:]

	l := log.Event("tag:add", "tag").
		Author(cmd.Author()).
		Image(ref).
		Detail("tags", tags)

	result, err := tag.Add(c.Context(), out(), e.svc, ref, tags...)
	l.Resolved(result.ID).Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("tag add %q: %w", ref, err))
	}
	return cmd.PrintJSON(result)
}

func (e *Extension) runRm(c *cobra.Command, args []string) error {
	ref, tags := args[0], args[1:]
	all, _ := c.Flags().GetBool(extension.FlagAll)
	if !all && len(tags) == 0 {
		return cmd.PrintJSONError(fmt.Errorf("tag rm %q: no tags given (use --all to remove every tag)", ref))
	}

	l := log.Event("tag:rm", "untag").
		Author(cmd.Author()).
		Image(ref).
		Detail("tags", tags).
		Detail("all", all)

	result, err := tag.Remove(c.Context(), out(), e.svc, ref, all, tags...)
	l.Resolved(result.ID).Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("tag rm %q: %w", ref, err))
	}
	return cmd.PrintJSON(result)
}

func (e *Extension) runLs(c *cobra.Command, args []string) error {
	ref := ""
	if len(args) > 0 {
		ref = args[0]
	}

	result, err := tag.List(c.Context(), out(), e.svc, ref)

	log.Event("tag:ls", "list_tags").
		Author(cmd.Author()).
		Image(ref).
		Resolved(result.ID).
		Detail("count", len(result.Tags)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("tag ls %q: %w", ref, err))
	}
	return cmd.PrintJSON(result)
}

func (e *Extension) runImages(c *cobra.Command, args []string) error {
	name := args[0]
	result, err := tag.Images(c.Context(), out(), e.svc, name)

	log.Event("tag:images", "list_images").
		Author(cmd.Author()).
		Detail("tag", name).
		Detail("count", len(result.Images)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("tag images %q: %w", name, err))
	}
	return cmd.PrintJSON(result)
}

func (e *Extension) runCreate(c *cobra.Command, args []string) error {
	name := args[0]
	result, err := tag.Create(c.Context(), out(), e.svc, name)

	log.Event("tag:create", "create").
		Author(cmd.Author()).
		Detail("tag", name).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("tag create %q: %w", name, err))
	}
	return cmd.PrintJSON(result)
}

func (e *Extension) runDelete(c *cobra.Command, args []string) error {
	name := args[0]
	result, err := tag.Delete(c.Context(), out(), e.svc, name)

	log.Event("tag:delete", "delete").
		Author(cmd.Author()).
		Detail("tag", name).
		Detail("images", len(result.Images)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("tag delete %q: %w", name, err))
	}
	return cmd.PrintJSON(result)
}
