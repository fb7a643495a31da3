// Package version carries build metadata injected at link time.
package version

import "fmt"

var (
	// Version is the current converter version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String formats the build metadata for -version output.
func String() string {
	return fmt.Sprintf("unified3d %s (%s, built %s)", Version, GitSHA, BuildTime)
}
