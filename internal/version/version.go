// Package version exposes build metadata stamped via -ldflags at release
// time.
package version

var (
	// Version is the release version.
	Version = "dev"
	// Commit is the short git commit hash.
	Commit = "unknown"
	// Date is the build timestamp.
	Date = "unknown"
)

// String renders the build metadata as a single log-friendly token.
func String() string {
	return Version + " (" + Commit + ", built " + Date + ")"
}
