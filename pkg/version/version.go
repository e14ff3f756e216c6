// Package version exposes build information set at link time.
package version

// Set with -ldflags "-X github.com/inveropulse/interact/pkg/version.version=..."
//
//nolint:gochecknoglobals // Populated by the linker
var (
	version   = "0.1.0-dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// GetVersion returns the semantic version of the binary.
func GetVersion() string {
	return version
}

// GetCommit returns the git commit the binary was built from.
func GetCommit() string {
	return commit
}

// GetBuildDate returns the build timestamp.
func GetBuildDate() string {
	return buildDate
}
