package preflight

import (
	"context"

	"scrivener/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckBinary("yt-dlp", cfg.Source.Binary))
	results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	results = append(results, CheckDiskSpace("Output disk space", cfg.Paths.OutputDir))

	if cfg.Notifications.NtfyTopic != "" {
		results = append(results, CheckNtfy(ctx, cfg.Notifications.NtfyTopic))
	}

	return results
}

// AllPassed reports whether every check in results succeeded.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
