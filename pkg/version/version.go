// Package version exposes the build-time identity of the hipify binary.
package version

import (
	"reflect"
	"strconv"
	"strings"
)

// Version, Commit, and Date are set by the release build via -ldflags; the
// zero-value "dev"/"none"/"unknown" trio is what a plain `go build` without
// ldflags produces.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// BinaryGitHash is the Git hash of the hipify binary file which is
// executing, same field name and role as the teacher's version package.
var BinaryGitHash = "<unknown>"

// Binary is the tool's major version number, recovered the same
// reflect-over-package-path trick the teacher package uses for its own
// vN module suffix convention.
var Binary = 1

type versionProbe struct{}

func init() {
	parts := strings.Split(reflect.TypeOf(versionProbe{}).PkgPath(), ".")

	last := parts[len(parts)-1]
	if len(last) > 1 && last[0] == 'v' {
		if n, err := strconv.Atoi(last[1:]); err == nil {
			Binary = n
		}
	}
}
