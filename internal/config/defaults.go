package config

const (
	defaultDataDir                  = "~/.local/share/studypulse"
	defaultLogDir                   = "~/.local/share/studypulse/logs"
	defaultAPIBind                  = "127.0.0.1:5000"
	defaultSessionsBackend          = BackendFiles
	defaultHistoryLimit             = 50
	defaultClassifierProvider       = ProviderStatic
	defaultClassifierBaseURL        = "https://api.openai.com/v1"
	defaultClassifierModel          = "gpt-4o-mini"
	defaultClassifierTimeoutSeconds = 30
	defaultMaxFrames                = 10
	defaultMaxImageBytes            = 5 * 1024 * 1024
	defaultMaxImageDimension        = 4096
	defaultTranscriptionBaseURL     = "https://api.openai.com/v1"
	defaultTranscriptionModel       = "whisper-1"
	defaultTranscriptionTimeout     = 60
	defaultMaxAudioBytes            = 10 * 1024 * 1024
	defaultLogFormat                = "console"
	defaultLogLevel                 = "info"
)

// MaxHistoryLimit caps how many session records a history read may return.
const MaxHistoryLimit = 50

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Sessions: Sessions{
			Backend:      defaultSessionsBackend,
			HistoryLimit: defaultHistoryLimit,
		},
		Classifier: Classifier{
			Provider:          defaultClassifierProvider,
			BaseURL:           defaultClassifierBaseURL,
			Model:             defaultClassifierModel,
			TimeoutSeconds:    defaultClassifierTimeoutSeconds,
			MaxFrames:         defaultMaxFrames,
			MaxImageBytes:     defaultMaxImageBytes,
			MaxImageDimension: defaultMaxImageDimension,
		},
		Transcription: Transcription{
			Enabled:        false,
			BaseURL:        defaultTranscriptionBaseURL,
			Model:          defaultTranscriptionModel,
			TimeoutSeconds: defaultTranscriptionTimeout,
			MaxAudioBytes:  defaultMaxAudioBytes,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
