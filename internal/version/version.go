// Package version exposes build version information set at build time
// through -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// These variables are set at build time using -ldflags.
var (
	// Version is the semantic version of the application.
	Version = "dev"

	// GitCommit is the git commit hash when the binary was built.
	GitCommit = "unknown"
)

// String returns a human-readable version line.
func String() string {
	return fmt.Sprintf("weaver %s (%s) %s %s/%s",
		Version, GitCommit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
