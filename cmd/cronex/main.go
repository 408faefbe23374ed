package main

import (
	"os"

	"github.com/aatumaykin/cronex/internal/constants"
	"github.com/aatumaykin/cronex/internal/version"
)

// Set at build time with -ldflags "-X main.Version=...".
var (
	Version   = constants.DefaultVersion
	BuildTime = constants.DefaultBuildTime
	GitCommit = constants.DefaultGitCommit
	GoVersion = constants.DefaultGoVersion
)

func init() {
	version.SetInfo(Version, BuildTime, GitCommit, GoVersion)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
