package dirstamp

import "fmt"

// Build metadata. Commit and BuildDate are injected at build time via
// -ldflags "-X github.com/Crinklebine/dirstamp/dirstamp.Commit=...";
// plain `go build` leaves the "unknown" fallbacks in place.
var (
	Version   = "0.3.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// VersionString renders the tool version together with whatever build
// metadata is available.
func VersionString() string {
	switch {
	case Commit != "unknown" && BuildDate != "unknown":
		return fmt.Sprintf("%s %s (%s %s)", DefaultAppName, Version, Commit, BuildDate)
	case Commit != "unknown":
		return fmt.Sprintf("%s %s (%s)", DefaultAppName, Version, Commit)
	default:
		return fmt.Sprintf("%s %s", DefaultAppName, Version)
	}
}
