// Package version holds build-time version information.
package version

import "fmt"

var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
	GoVersion = "unknown"
)

// SetInfo overrides the version fields with values injected at build time.
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

// FormatStartupMessage returns a short banner for startup logging.
func FormatStartupMessage() string {
	return fmt.Sprintf("quartznet %s (build %s)", Version, BuildTime)
}
