// Package version derives the build version for logging and the
// health endpoint. An -ldflags override wins, then VCS metadata from
// debug.BuildInfo, then "dev".
package version

import "runtime/debug"

// AppName is the service name used in version strings and logging.
const AppName = "sensmask"

// gitCommitOverride is set via -ldflags for container builds where
// .git is unavailable.
var gitCommitOverride string

// GitCommit is the short commit hash, or "dev" when no build metadata
// is available (go test, non-git builds).
var GitCommit = initGitCommit()

func initGitCommit() string {
	if gitCommitOverride != "" {
		return shorten(gitCommitOverride)
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				return shorten(s.Value)
			}
		}
	}
	return "dev"
}

func shorten(rev string) string {
	if len(rev) > 8 {
		return rev[:8]
	}
	return rev
}

// Full returns "sensmask/<commit>".
func Full() string {
	return AppName + "/" + GitCommit
}
