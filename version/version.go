// Package version holds build metadata injected at link time via -ldflags.
package version

import (
	"fmt"
	"runtime"
)

var (
	// GitRelease is the release tag, set via -ldflags at build time.
	GitRelease = "dev"

	// GitCommit is the git commit hash, set via -ldflags at build time.
	GitCommit = "unknown"

	// GitCommitDate is the commit date, set via -ldflags at build time.
	GitCommitDate = "unknown"

	// GoInfo describes the Go toolchain and platform the binary was built with.
	GoInfo = fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
)
