// Package version carries build metadata set with -ldflags.
package version

var (
	// Version is the release tag.
	Version = "dev"
	// Commit is the git revision the binary was built from.
	Commit = ""
	// BuildDate is an RFC 3339 build timestamp.
	BuildDate = ""
)
