// guide.go implements "imgtag guide". Pages are embedded by the guide
// package. A terminal gets glamour rendering; pipes get raw markdown.

package core

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jpl-au/imgtag/cmd"
	"github.com/jpl-au/imgtag/guide"
)

func newGuideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guide [topic]",
		Short: "Show the imgtag usage guide",
		Long: `Outputs the imgtag guide.

  imgtag guide          # overview
  imgtag guide tag      # tagging in detail
  imgtag guide install  # install notes for this platform`,
		Args: cobra.MaximumNArgs(1),
		RunE: runGuide,
	}
}

func runGuide(_ *cobra.Command, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	content, err := guide.Get(name)
	if err != nil {
		available, listErr := guide.List()
		if listErr != nil {
			return listErr
		}
		return cmd.PrintJSONError(fmt.Errorf("guide %q not found. Available: %s", name, strings.Join(available, ", ")))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(map[string]string{"topic": name, "content": content})
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if rendered, err := glamour.Render(content, "dark"); err == nil {
			fmt.Fprint(cmd.Out(), rendered)
			return nil
		}
	}
	fmt.Fprint(cmd.Out(), content)
	return nil
}
