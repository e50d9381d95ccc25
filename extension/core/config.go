// config.go implements "imgtag config".
//
// Local config (.imgtag/config.yaml) wins over global (~/.imgtag/config.yaml)
// when it exists. --local selects it even before it has been written.

package core

import (
	"fmt"
	"maps"
	"slices"

	"github.com/jpl-au/imgtag/cmd"
	"github.com/jpl-au/imgtag/extension"
	"github.com/jpl-au/imgtag/internal/config"
	"github.com/jpl-au/imgtag/internal/log"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "config [key] [value]",
		Short: "View or set config values",
		Long: `View or set config values.

  imgtag config                        # show config
  imgtag config watch.debounce         # show one value
  imgtag config ingest.max_depth 20    # set a value

Configuration locations:
  Global: ~/.imgtag/config.yaml
  Local:  .imgtag/config.yaml

Uses local config if it exists, otherwise global.
Writes go to the same place reads come from.
Use --local to use local config instead.`,
		Args: cobra.MaximumNArgs(2),
		RunE: runConfig,
	}
	c.Flags().Bool(extension.FlagLocal, false, "Use local config (.imgtag/config.yaml)")
	return c
}

func runConfig(c *cobra.Command, args []string) error {
	forceLocal, _ := c.Flags().GetBool(extension.FlagLocal)

	var cfg *config.Config
	var err error
	if forceLocal {
		cfg, err = config.LoadScope(config.ScopeLocal)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("config load: %w", err))
	}

	scopeName := "global"
	if cfg.Scope() == config.ScopeLocal {
		scopeName = "local"
	}

	switch len(args) {
	case 0:
		all := cfg.All()
		keys := slices.Sorted(maps.Keys(all))
		if !cmd.JSON() {
			for _, k := range keys {
				fmt.Fprintf(cmd.Out(), "%s: %s\n", k, all[k])
			}
		}
		log.Event("core:config", "list").Author(cmd.Author()).Detail("scope", scopeName).Write(nil)
		return cmd.PrintJSON(all)

	case 1:
		v, err := cfg.Get(args[0])
		log.Event("core:config", "get").Author(cmd.Author()).Detail("key", args[0]).Write(err)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("config get %q: %w", args[0], err))
		}
		if !cmd.JSON() {
			fmt.Fprintln(cmd.Out(), v)
		}
		return cmd.PrintJSON(map[string]string{"key": args[0], "value": v})

	case 2:
		if err := cfg.Set(args[0], args[1]); err != nil {
			log.Event("core:config", "set").Author(cmd.Author()).Detail("key", args[0]).Write(err)
			return cmd.PrintJSONError(fmt.Errorf("config set %q: %w", args[0], err))
		}

		saveErr := cfg.Save()
		log.Event("core:config", "set").Author(cmd.Author()).Detail("key", args[0]).Detail("scope", scopeName).Write(saveErr)
		if saveErr != nil {
			return cmd.PrintJSONError(fmt.Errorf("config save: %w", saveErr))
		}
		if !cmd.JSON() {
			fmt.Fprintf(cmd.Out(), "%s = %s (%s)\n", args[0], args[1], scopeName)
		}
		return cmd.PrintJSON(map[string]string{"key": args[0], "value": args[1], "scope": scopeName})
	}
	return nil
}
