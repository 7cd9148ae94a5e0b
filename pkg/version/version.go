// Package version reports the amlscreen build version.
package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Overridden at build time via -ldflags "-X github.com/rshade/amlscreen/pkg/version.version=v1.2.3".
var (
	version   = "0.1.0-dev" //nolint:gochecknoglobals // Set by the linker.
	gitCommit = "unknown"   //nolint:gochecknoglobals // Set by the linker.
	buildDate = "unknown"   //nolint:gochecknoglobals // Set by the linker.
)

// GetVersion returns the build version.
func GetVersion() string {
	return version
}

// GetGitCommit returns the commit the binary was built from.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the build timestamp.
func GetBuildDate() string {
	return buildDate
}

// Parse validates v as a semantic version, tolerating a leading "v".
func Parse(v string) (*semver.Version, error) {
	sv, err := semver.NewVersion(v)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", v, err)
	}
	return sv, nil
}

// String returns a one-line description for --version output.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", version, gitCommit, buildDate)
}
