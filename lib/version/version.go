// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags, for example:
//
//	go build -ldflags "-X github.com/bitflipped/bitflipped/lib/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/bitflipped
//
// An empty GitCommit or BuildTime falls back to the VCS stamp the Go
// toolchain embeds in module builds.
var (
	Version   = "0.1.0-dev"
	GitCommit = ""
	BuildTime = ""
)

// Info returns "VERSION (COMMIT, TIME)".
func Info() string {
	commit, built := GitCommit, BuildTime
	if commit == "" || built == "" {
		stampCommit, stampTime := vcsStamp()
		if commit == "" {
			commit = stampCommit
		}
		if built == "" {
			built = stampTime
		}
	}
	return fmt.Sprintf("%s (%s, %s)", Version, commit, built)
}

// Full returns Info followed by the Go toolchain and platform.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Print writes "BINARY FULL" to w.
func Print(w io.Writer, binary string) {
	fmt.Fprintf(w, "%s %s\n", binary, Full())
}

// vcsStamp reads vcs.revision and vcs.time from the build info,
// returning "unknown" for whatever is absent. Revisions are shortened
// to the usual seven characters.
func vcsStamp() (commit, built string) {
	commit, built = "unknown", "unknown"
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return commit, built
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			commit = setting.Value
			if len(commit) > 7 {
				commit = commit[:7]
			}
		case "vcs.time":
			built = setting.Value
		}
	}
	return commit, built
}
