package app

import "fmt"

// Version and Commit are set via ldflags at build time.
// Example: go build -ldflags "-X github.com/ikluft/moveboxtracker/internal/app.Version=1.0.0"
var (
	Version = "dev"
	Commit  = "unknown"
)

// BuildVersion returns a formatted version string for the version subcommand.
func BuildVersion() string {
	return fmt.Sprintf("moveboxtracker %s (commit: %s)", Version, Commit)
}
