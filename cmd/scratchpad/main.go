// Command scratchpad serves per-session scratchpads and todo lists to
// tool-calling agents over MCP stdio.
package main

import (
	"runtime/debug"

	"github.com/armatrix/agent-scratchpad/internal/cli"
)

// version info injected via ldflags:
// go build -ldflags "-X main.version=0.1.0 -X main.commit=abc123 -X main.date=2026-10-18"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	if commit == "none" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" && len(s.Value) >= 7 {
					commit = s.Value[:7]
					break
				}
			}
		}
	}
}

func main() {
	cli.Execute(cli.BuildInfo{Version: version, Commit: commit, Date: date})
}
