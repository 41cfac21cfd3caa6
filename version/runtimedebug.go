package version

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// BuildInfo returns the build information
func BuildInfo() (*debug.BuildInfo, error) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, errors.New("fetching build info failed")
	}

	if bi == nil {
		return nil, errors.New("build information is empty")
	}

	return bi, nil
}

// Summary returns a one-line description of the running build.
func Summary() string {
	bi, err := BuildInfo()
	if err != nil {
		return "unknown build: " + err.Error()
	}

	s := fmt.Sprintf("%s %s %s", bi.Main.Path, bi.Main.Version, bi.GoVersion)
	for _, setting := range bi.Settings {
		if setting.Key == "vcs.revision" {
			s += " " + setting.Value
		}
	}

	return s
}
