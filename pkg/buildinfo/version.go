// Package buildinfo exposes build metadata stamped in at link time:
//
//	go build -ldflags "-X github.com/matzehuels/bpview/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/bpview/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/bpview/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/bpview
package buildinfo

import "fmt"

// Link-time variables. Unset builds report "dev".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the build information, one field per line.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Short returns "version (commit)", used in the HTTP viewer's footer and
// health response.
func Short() string {
	if Commit == "none" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, Commit)
}

// Template returns the version template for cobra's --version output.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
