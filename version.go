package main

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// Build-time variables injected via linker flags (ldflags):
//
//	go build -ldflags "-X main.Version=$(git describe --tags) ..." -o nfc
//
// See: https://pkg.go.dev/cmd/link (-X importpath.name=value)
var (
	Version   = "dev"     // Overwritten with git tag (e.g., "v0.5.0")
	Commit    = "unknown" // Overwritten with git commit hash
	BuildDate = "unknown" // Overwritten with build timestamp
)

// versionString normalizes Version to "vMAJOR.MINOR.PATCH[-pre]". Anything
// that is not a semantic version, such as "dev", is shown unchanged.
func versionString() string {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return Version
	}
	return "v" + v.String()
}

// printVersion prints version information to stdout.
func printVersion() {
	fmt.Printf("nfc %s (%s/%s)\n", versionString(), runtime.GOOS, runtime.GOARCH)
	if Commit != "unknown" {
		fmt.Printf("  commit: %s\n", Commit)
	}
	if BuildDate != "unknown" {
		fmt.Printf("  built:  %s\n", BuildDate)
	}
}
