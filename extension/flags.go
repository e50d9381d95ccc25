// flags.go defines constants for CLI flag names shared across commands,
// so a flag's definition and its lookup cannot drift apart.
//
// Naming convention: Flag<PascalCaseName> for the kebab-case flag
// (e.g. "skip-hidden" -> FlagSkipHidden).

package extension

// Flag name constants for CLI commands.
const (
	// Boolean flags

	FlagAll        = "all"         // Apply to every tag of an image
	FlagChanges    = "changes"     // Show transitions instead of names
	FlagFolder     = "folder"      // Open the containing folder
	FlagHistory    = "history"     // Include version logs
	FlagLocal      = "local"       // Use local scope (gitignored)
	FlagLong       = "long"        // Long format output
	FlagPending    = "pending"     // Only images awaiting a rename
	FlagPaths      = "paths"       // Output file paths only
	FlagRaw        = "raw"         // Output without colour
	FlagShare      = "share"       // Mark as shared (committed)
	FlagSkipHidden = "skip-hidden" // Skip dot-files and dot-directories
	FlagTree       = "tree"        // Tree view output
	FlagAllRepos   = "all-repos"   // Entries from every catalogue

	// String flags

	FlagOnly     = "only"     // Restrict to one directory
	FlagTag      = "tag"      // Tag filter
	FlagVersions = "versions" // Version range (e.g. "0:2")

	// Integer flags

	FlagLimit    = "limit"     // Limit number of results
	FlagMaxDepth = "max-depth" // Directory recursion limit
)
