// Package version reports the build version of the codex binaries.
// Both values are set at build time:
//
//	go build -ldflags "-X github.com/ramonehamilton/otherworld-codex/internal/version.Version=v0.3.0 -X github.com/ramonehamilton/otherworld-codex/internal/version.Commit=abc1234"
package version

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"
	// Commit is the short commit hash the binary was built from.
	Commit = ""
)

// String renders the version with its commit when known.
func String() string {
	if Commit == "" {
		return Version
	}
	return Version + " (" + Commit + ")"
}
