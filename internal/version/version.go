// Package version exposes build metadata set via -ldflags.
package version

import "fmt"

// Set at build time:
//
//	go build -ldflags "-X nutribot/internal/version.Version=v1.2.3 ..."
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info returns a one-line human-readable version string.
func Info() string {
	return fmt.Sprintf("nutribot %s (commit %s, built %s)", Version, Commit, Date)
}
