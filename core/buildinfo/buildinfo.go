// Package buildinfo carries release metadata stamped in at link time:
//
//	-X 'github.com/m3rciful/teamboard/core/buildinfo.Version=v1.2.3'
//	-X 'github.com/m3rciful/teamboard/core/buildinfo.Commit=abcdef0'
//	-X 'github.com/m3rciful/teamboard/core/buildinfo.Date=2025-08-30T12:00:00Z'
package buildinfo

import "fmt"

var (
	// Version reports the semantic version or tag of the build.
	Version = "dev"
	// Commit reports the source control commit used for the build.
	Commit = "local"
	// Date reports the build timestamp in RFC3339 format.
	Date = ""
)

// String renders the metadata for --version output.
func String() string {
	if Date == "" {
		return fmt.Sprintf("teamboard %s (%s)", Version, Commit)
	}
	return fmt.Sprintf("teamboard %s (%s, built %s)", Version, Commit, Date)
}
