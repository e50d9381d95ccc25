// vacuum.go implements "imgtag stats" and "imgtag vacuum", the two
// commands that look at the catalogue file rather than its images.

package core

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpl-au/imgtag/cmd"
	"github.com/jpl-au/imgtag/internal/format"
	"github.com/jpl-au/imgtag/internal/log"
)

func (e *Extension) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalogue statistics",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			st, err := e.svc.Stats(c.Context())
			log.Event("core:stats", "stats").Author(cmd.Author()).Write(err)
			if err != nil {
				return cmd.PrintJSONError(fmt.Errorf("stats: %w", err))
			}
			if cmd.JSON() {
				return cmd.PrintJSON(st)
			}
			return format.Stats(cmd.Out(), st)
		},
	}
}

func (e *Extension) newVacuumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vacuum",
		Short: "Compact the catalogue database",
		Long: `Rebuild the catalogue database to reclaim free pages.
Images and history are untouched. Use --force to skip confirmation.`,
		Args: cobra.NoArgs,
		RunE: e.runVacuum,
	}
}

func (e *Extension) runVacuum(c *cobra.Command, _ []string) error {
	ctx := c.Context()

	if !cmd.Force() && !cmd.JSON() {
		fmt.Fprint(cmd.Out(), "Compact the catalogue now? [y/N] ")
		response, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("reading confirmation: %w", err))
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(cmd.Out(), "Cancelled")
			return nil
		}
	}

	before, _ := e.svc.Stats(ctx)
	err := e.svc.Vacuum(ctx)
	after, _ := e.svc.Stats(ctx)

	l := log.Event("core:vacuum", "vacuum").Author(cmd.Author())
	if before != nil && after != nil {
		l = l.Detail("before", before.SizeBytes).Detail("after", after.SizeBytes)
	}
	l.Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("vacuum: %w", err))
	}
	if cmd.JSON() {
		return cmd.PrintJSON(after)
	}
	if before != nil && after != nil {
		fmt.Fprintf(cmd.Out(), "Vacuumed catalogue: %d -> %d bytes\n", before.SizeBytes, after.SizeBytes)
	} else {
		fmt.Fprintln(cmd.Out(), "Vacuumed catalogue")
	}
	return nil
}
