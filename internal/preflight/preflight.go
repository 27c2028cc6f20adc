package preflight

import (
	"context"

	"studypulse/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes the local checks for the given config.
func RunAll(_ context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Sessions directory", sessionsLocation(cfg)),
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	results = append(results, CheckClassifierConfig(cfg), CheckTranscriptionConfig(cfg))
	return results
}

// RunRemote probes the configured remote endpoints. Disabled features are skipped.
func RunRemote(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	var results []Result
	if cfg.ClassifierEnabled() {
		results = append(results, CheckEndpoint(ctx, "Classifier endpoint", cfg.Classifier.BaseURL, cfg.Classifier.APIKey))
	}
	if cfg.Transcription.Enabled {
		results = append(results, CheckEndpoint(ctx, "Transcription endpoint", cfg.Transcription.BaseURL, cfg.Transcription.APIKey))
	}
	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

func sessionsLocation(cfg *config.Config) string {
	if cfg.Sessions.Backend == config.BackendSQLite {
		return cfg.Paths.DataDir
	}
	return cfg.SessionsDir()
}
