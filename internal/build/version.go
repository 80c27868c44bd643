package build

import "fmt"

// Set at link time:
//
//	go build -ldflags "-X github.com/rohmanhakim/site-mirror/internal/build.Version=1.2.0 ..."
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// FullVersion returns the version string with commit hash appended.
// Format: "Version+Commit" (e.g., "1.0.0+abc123")
func FullVersion() string {
	return Version + "+" + Commit
}

// Summary is the line printed by the version command.
func Summary() string {
	return fmt.Sprintf("site-mirror %s (commit %s, built %s)", Version, Commit, BuildTime)
}
