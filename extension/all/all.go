// Package all imports the built-in imgtag extensions.
// Import this package to register all built-in commands.
package all

import (
	// Each registers itself via init()
	_ "github.com/jpl-au/imgtag/extension/core"
	_ "github.com/jpl-au/imgtag/extension/image"
	_ "github.com/jpl-au/imgtag/extension/tag"
)
