package api

import (
	"log/slog"
	"time"

	"studypulse/internal/config"
	"studypulse/internal/services/transcribe"
	"studypulse/internal/services/vision"
)

// ProvidersFromConfig builds the classifier and transcriber cfg asks for.
// Remote calls are never retried; failures surface to the caller.
// Disabled features leave the option nil so NewAssistant falls back to the
// static classifier and disabled transcription.
func ProvidersFromConfig(cfg *config.Config, logger *slog.Logger) (AssistantOptions, error) {
	opts := AssistantOptions{Logger: logger}.WithConfig(cfg)
	if cfg == nil {
		return opts, nil
	}

	if cfg.ClassifierEnabled() {
		classifier, err := vision.New(vision.Config{
			APIKey:     cfg.Classifier.APIKey,
			BaseURL:    cfg.Classifier.BaseURL,
			Model:      cfg.Classifier.Model,
			Timeout:    seconds(cfg.Classifier.TimeoutSeconds),
			MaxRetries: 0,
		}, vision.WithLogger(logger))
		if err != nil {
			return AssistantOptions{}, err
		}
		opts.Classifier = classifier
	}

	if cfg.Transcription.Enabled {
		transcriber, err := transcribe.New(transcribe.Config{
			APIKey:     cfg.Transcription.APIKey,
			BaseURL:    cfg.Transcription.BaseURL,
			Model:      cfg.Transcription.Model,
			Timeout:    seconds(cfg.Transcription.TimeoutSeconds),
			MaxRetries: 0,
			MaxBytes:   int64(cfg.Transcription.MaxAudioBytes),
		}, nil, logger)
		if err != nil {
			return AssistantOptions{}, err
		}
		opts.Transcriber = transcriber
	}
	return opts, nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
