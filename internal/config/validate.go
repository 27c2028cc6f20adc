package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSessions(); err != nil {
		return err
	}
	if err := c.validateClassifier(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateSessions() error {
	switch c.Sessions.Backend {
	case BackendFiles, BackendSQLite:
	default:
		return fmt.Errorf("sessions.backend must be %q or %q, got %q", BackendFiles, BackendSQLite, c.Sessions.Backend)
	}
	if c.Sessions.HistoryLimit > MaxHistoryLimit {
		return fmt.Errorf("sessions.history_limit must be at most %d", MaxHistoryLimit)
	}
	return nil
}

func (c *Config) validateClassifier() error {
	switch c.Classifier.Provider {
	case ProviderStatic:
	case ProviderOpenAI:
		if c.Classifier.APIKey == "" {
			defaultPath, err := DefaultConfigPath()
			if err != nil {
				defaultPath = "~/.config/studypulse/config.toml"
			}
			return fmt.Errorf("classifier.api_key is required when classifier.provider is %q. Set OPENAI_API_KEY or edit %s", ProviderOpenAI, defaultPath)
		}
	default:
		return fmt.Errorf("classifier.provider must be %q or %q, got %q", ProviderStatic, ProviderOpenAI, c.Classifier.Provider)
	}
	if err := ensurePositiveMap(map[string]int{
		"classifier.timeout_seconds":     c.Classifier.TimeoutSeconds,
		"classifier.max_frames":          c.Classifier.MaxFrames,
		"classifier.max_image_bytes":     c.Classifier.MaxImageBytes,
		"classifier.max_image_dimension": c.Classifier.MaxImageDimension,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTranscription() error {
	if !c.Transcription.Enabled {
		return nil
	}
	if c.Transcription.APIKey == "" {
		return errors.New("transcription.api_key must be set when transcription.enabled is true (or set OPENAI_API_KEY)")
	}
	return ensurePositiveMap(map[string]int{
		"transcription.timeout_seconds": c.Transcription.TimeoutSeconds,
		"transcription.max_audio_bytes": c.Transcription.MaxAudioBytes,
	})
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
