package internal

import (
	"fmt"
	"runtime"
)

var (
	name      string = "Gatt"
	version   string = "v0.3.0"
	buildDate string = ""
	commit    string = ""
)

// Version returns the version string.
func Version() string {
	return fmt.Sprintf("%s %s", name, version)
}

// VersionVerbose returns the verbose version string including build
// metadata and the Go runtime.
func VersionVerbose() string {
	return fmt.Sprintf("%s %s %s %s (%s)", name, version, buildDate, commit, runtime.Version())
}
