// watch.go implements "imgtag watch". It re-ingests a tree whenever image
// files appear, vanish or are renamed, until interrupted.

package core

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jpl-au/imgtag/cmd"
	"github.com/jpl-au/imgtag/extension"
	"github.com/jpl-au/imgtag/internal/config"
	"github.com/jpl-au/imgtag/internal/ingest"
	"github.com/jpl-au/imgtag/internal/log"
	"github.com/jpl-au/imgtag/internal/repo"
	"github.com/jpl-au/imgtag/internal/watcher"
)

func (e *Extension) newWatchCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-ingest a directory tree when it changes",
		Long: `Scan dir, then watch it and re-ingest after each burst of changes.
Defaults to the last scanned directory. Known images keep their history.
The quiet period is watch.debounce (default 300ms). Stop with Ctrl-C.`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runWatch,
	}
	c.Flags().Bool(extension.FlagSkipHidden, false, "Skip dot-files and dot-directories")
	return c
}

func (e *Extension) runWatch(c *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := e.svc.LastDirectory(ctx)
	if len(args) > 0 {
		root = args[0]
	}
	if root == "" {
		root = "."
	}

	cfg := e.cfg
	if cfg == nil {
		cfg = &config.Config{}
	}
	skipHidden, _ := c.Flags().GetBool(extension.FlagSkipHidden)
	wcfg := watcher.Config{
		Root:       root,
		Debounce:   cfg.Debounce(),
		SkipDirs:   []string{repo.Dir},
		SkipHidden: skipHidden || cfg.SkipHidden(),
	}

	res, err := e.svc.Ingest(ctx, cmd.Out(), root, ingest.Options{KeepKnown: true, SkipHidden: wcfg.SkipHidden})
	if err != nil {
		log.Event("core:watch", "ingest").Author(cmd.Author()).Path(root).Write(err)
		return cmd.PrintJSONError(fmt.Errorf("watch %q: %w", root, err))
	}
	wcfg.Root = res.Root

	err = watcher.Run(ctx, cmd.Out(), e.svc, wcfg)

	log.Event("core:watch", "watch").
		Author(cmd.Author()).
		Path(wcfg.Root).
		Detail("debounce", wcfg.Debounce.String()).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("watch %q: %w", wcfg.Root, err))
	}
	return nil
}
