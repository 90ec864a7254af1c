// Package version reports how the appcli binary was built.
//
// Release builds stamp the values with ldflags:
//
//	go build -ldflags "\
//	  -X github.com/Aman-CERP/appcli/pkg/version.Version=1.4.0 \
//	  -X github.com/Aman-CERP/appcli/pkg/version.Commit=$(git rev-parse --short HEAD) \
//	  -X github.com/Aman-CERP/appcli/pkg/version.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	  ./cmd/appcli
//
// A plain go build leaves Commit and Date unset; they are then taken from
// the VCS settings the toolchain embeds in the binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const unknown = "unknown"

var (
	// Version is the release version, "dev" for unstamped builds.
	Version = "dev"
	// Commit is the abbreviated revision the binary was built from.
	Commit = unknown
	// Date is the build or commit time in RFC3339 format.
	Date = unknown
	// GoVersion is the toolchain that built the binary.
	GoVersion = runtime.Version()
)

func init() {
	fillFromBuildInfo(debug.ReadBuildInfo)
}

// fillFromBuildInfo sets Commit and Date from embedded VCS settings when
// ldflags did not stamp them.
func fillFromBuildInfo(read func() (*debug.BuildInfo, bool)) {
	info, ok := read()
	if !ok {
		return
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == unknown && s.Value != "" {
				Commit = shortRevision(s.Value)
			}
		case "vcs.time":
			if Date == unknown && s.Value != "" {
				Date = s.Value
			}
		}
	}
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

// BuildInfo is the JSON shape printed by "appcli version --json".
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// String is the one-line form printed by "appcli version".
func String() string {
	return fmt.Sprintf("appcli %s (commit: %s, built: %s, go: %s)",
		Version, Commit, Date, GoVersion)
}

// Short returns the bare version, as printed by --short and --version.
func Short() string {
	return Version
}

// GetInfo returns the build information for the running binary.
func GetInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}
