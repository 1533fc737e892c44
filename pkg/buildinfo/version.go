// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/tscproj/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/tscproj/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/tscproj/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/matzehuels/tscproj/pkg/version"
)

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// Info is the build description served by the API.
type Info struct {
	Version           string   `json:"version"`
	Commit            string   `json:"commit"`
	Date              string   `json:"date"`
	GoVersion         string   `json:"go_version"`
	SupportedVersions []string `json:"supported_project_versions"`
}

// Get returns the current build information.
func Get() Info {
	return Info{
		Version:           Version,
		Commit:            Commit,
		Date:              Date,
		GoVersion:         runtime.Version(),
		SupportedVersions: append([]string(nil), version.Supported...),
	}
}

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s\nproject versions: %s",
		Version, Commit, Date, strings.Join(version.Supported, ", "))
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
