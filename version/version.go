// Package version holds build metadata injected at link time:
//
//	go build -ldflags "-X github.com/mawa-labs/mawa/version.GitRelease=v0.1.0"
package version

import "runtime"

var (
	// GitRelease is the release tag of the build.
	GitRelease = "dev"

	// GitCommit is the commit hash of the build.
	GitCommit = "unknown"

	// GitCommitDate is the commit date of the build.
	GitCommitDate = "unknown"

	// GoInfo is the Go toolchain the binary was built with.
	GoInfo = runtime.Version()
)
