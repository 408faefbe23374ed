// Package version holds build metadata injected with -ldflags.
package version

import (
	"fmt"

	"github.com/aatumaykin/cronex/internal/constants"
)

var (
	Version   = constants.DefaultVersion
	BuildTime = constants.DefaultBuildTime
	GitCommit = constants.DefaultGitCommit
	GoVersion = constants.DefaultGoVersion
)

// SetInfo overrides the metadata; empty values keep the current ones.
func SetInfo(v, bt, gc, gv string) {
	if v != "" {
		Version = v
	}
	if bt != "" {
		BuildTime = bt
	}
	if gc != "" {
		GitCommit = gc
	}
	if gv != "" {
		GoVersion = gv
	}
}

// FormatStartupMessage is logged once when the daemon starts.
func FormatStartupMessage() string {
	return fmt.Sprintf("cronex %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
