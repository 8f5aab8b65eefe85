// Package env carries build metadata injected at link time via
// -ldflags "-X github.com/relunix/fatkernel/internal/env.Version=...".
package env

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)
