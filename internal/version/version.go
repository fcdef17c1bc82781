package version

// Version is the current released version.
// This value can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/voyagerhq/voyager/internal/version.Version=v0.3.0"
var Version = "0.0.0-dev"

// GitCommit is the git commit hash at build time.
// Set via ldflags: -X github.com/voyagerhq/voyager/internal/version.GitCommit=$(git rev-parse HEAD)
var GitCommit = "unknown"

// GetCurrentVersion returns the version string for the given run mode.
func GetCurrentVersion(mode string) string {
	if mode == "dev" {
		return Version + "-dev"
	}
	return Version
}
