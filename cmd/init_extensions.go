/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// init_extensions.go handles extension initialisation and command registration.
//
// Extensions register during init() but are not initialised until the
// first command that needs the catalogue runs. The service is created once
// and shared across all extensions via the Context.

package cmd

import (
	"fmt"
	"sync"

	"github.com/jpl-au/imgtag/extension"
	"github.com/jpl-au/imgtag/internal/catalog"
	"github.com/jpl-au/imgtag/internal/config"
	"github.com/jpl-au/imgtag/internal/log"
)

// noStoreCommands lists commands that bypass automatic catalogue opening.
var noStoreCommands map[string]bool

// buildNoStoreCommands collects the bootstrap commands plus every command
// an extension declares through extension.Storeless.
func buildNoStoreCommands() map[string]bool {
	cmds := map[string]bool{
		rootCmd.Name(): true,
		"init":         true,
		"guide":        true,
		"config":       true,
		"help":         true,
		"completion":   true,
	}
	for _, ext := range extension.All() {
		if s, ok := ext.(extension.Storeless); ok {
			for _, name := range s.NoStoreCommands() {
				cmds[name] = true
			}
		}
	}
	return cmds
}

var (
	extContext extension.Context
	extService *catalog.Service
	initOnce   sync.Once
	initErr    error
)

// initExtensions opens the catalogue and injects it into extensions.
// It runs at most once per process.
func initExtensions() error {
	initOnce.Do(func() {
		svc, err := catalog.NewAt(Dir(), DB())
		if err != nil {
			initErr = fmt.Errorf("opening catalogue: %w", err)
			return
		}
		extService = svc

		log.SetProject(svc.Dir())

		cfg, err := config.Load()
		if err != nil {
			initErr = err
			return
		}
		extContext = extension.NewContext(svc, svc.DB(), cfg)
		svc.SetExtensionContext(extContext)

		for _, ext := range extension.All() {
			if init, ok := ext.(extension.Initializable); ok {
				if err := init.Init(extContext); err != nil {
					initErr = fmt.Errorf("init extension %s: %w", ext.Name(), err)
					return
				}
			}
		}
	})
	return initErr
}

var extensionsOnce sync.Once

// registerExtensions adds commands from all registered extensions.
func registerExtensions() {
	extensionsOnce.Do(func() {
		for _, ext := range extension.All() {
			for _, cmd := range ext.Commands() {
				rootCmd.AddCommand(cmd)
			}
		}
		noStoreCommands = buildNoStoreCommands()
	})
}
