package cmd

import (
	"fmt"
	"runtime/debug"
)

// Overridden at link time, e.g.
//
//	go build -ldflags "-X github.com/OhanaFS/sizediff/cmd/sizediff/cmd.release=true"
var (
	version = "0.1.0"
	release = ""
)

// versionString returns the plain version for release builds. Other builds get
// the VCS revision the toolchain stamped into the binary, if any, like
// "0.1.0 (abc1234) (dirty)".
func versionString() string {
	if release == "true" {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version
	}

	var revision string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if revision == "" {
		return version
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}

	v := fmt.Sprintf("%s (%s)", version, revision)
	if dirty {
		v += " (dirty)"
	}
	return v
}
