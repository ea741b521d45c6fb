package main

import (
	"envready/internal/cli"
	_ "envready/internal/fetcher/providers"
	_ "envready/internal/probes/checks"
)

// These variables are populated by the build via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cli.SetBuildInfo(version, commit, date)
	cli.Execute()
}
