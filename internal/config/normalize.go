package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSessions()
	c.normalizeClassifier()
	c.normalizeTranscription()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	if c.Paths.APIToken == "" {
		if value, ok := os.LookupEnv("STUDYPULSE_API_TOKEN"); ok {
			c.Paths.APIToken = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizeSessions() {
	c.Sessions.Backend = strings.ToLower(strings.TrimSpace(c.Sessions.Backend))
	if c.Sessions.Backend == "" {
		c.Sessions.Backend = defaultSessionsBackend
	}
	if c.Sessions.HistoryLimit <= 0 {
		c.Sessions.HistoryLimit = defaultHistoryLimit
	}
}

func (c *Config) normalizeClassifier() {
	c.Classifier.Provider = strings.ToLower(strings.TrimSpace(c.Classifier.Provider))
	if c.Classifier.Provider == "" {
		c.Classifier.Provider = defaultClassifierProvider
	}
	c.Classifier.APIKey = strings.TrimSpace(c.Classifier.APIKey)
	if c.Classifier.APIKey == "" {
		if value, ok := os.LookupEnv("STUDYPULSE_CLASSIFIER_API_KEY"); ok {
			c.Classifier.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.Classifier.APIKey = strings.TrimSpace(value)
		}
	}
	c.Classifier.BaseURL = strings.TrimRight(strings.TrimSpace(c.Classifier.BaseURL), "/")
	if c.Classifier.BaseURL == "" {
		c.Classifier.BaseURL = defaultClassifierBaseURL
	}
	c.Classifier.Model = strings.TrimSpace(c.Classifier.Model)
	if c.Classifier.Model == "" {
		c.Classifier.Model = defaultClassifierModel
	}
	if c.Classifier.TimeoutSeconds <= 0 {
		c.Classifier.TimeoutSeconds = defaultClassifierTimeoutSeconds
	}
	if c.Classifier.MaxFrames <= 0 {
		c.Classifier.MaxFrames = defaultMaxFrames
	}
	if c.Classifier.MaxImageBytes <= 0 {
		c.Classifier.MaxImageBytes = defaultMaxImageBytes
	}
	if c.Classifier.MaxImageDimension <= 0 {
		c.Classifier.MaxImageDimension = defaultMaxImageDimension
	}
}

func (c *Config) normalizeTranscription() {
	c.Transcription.APIKey = strings.TrimSpace(c.Transcription.APIKey)
	if c.Transcription.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.Transcription.APIKey = strings.TrimSpace(value)
		}
	}
	c.Transcription.BaseURL = strings.TrimRight(strings.TrimSpace(c.Transcription.BaseURL), "/")
	if c.Transcription.BaseURL == "" {
		c.Transcription.BaseURL = defaultTranscriptionBaseURL
	}
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaultTranscriptionModel
	}
	if c.Transcription.TimeoutSeconds <= 0 {
		c.Transcription.TimeoutSeconds = defaultTranscriptionTimeout
	}
	if c.Transcription.MaxAudioBytes <= 0 {
		c.Transcription.MaxAudioBytes = defaultMaxAudioBytes
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
