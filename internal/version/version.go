// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Engine is the search engine version reported in search metadata.
// Bumped when scoring or cursor semantics change in a caller-visible way.
const Engine = "2.1.0"
