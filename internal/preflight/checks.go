package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"studypulse/internal/config"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckClassifierConfig reports which emotion classifier is active.
func CheckClassifierConfig(cfg *config.Config) Result {
	const name = "Emotion classifier"
	switch cfg.Classifier.Provider {
	case config.ProviderStatic:
		return Result{Name: name, Passed: true, Detail: "static (always neutral)"}
	case config.ProviderOpenAI:
		if strings.TrimSpace(cfg.Classifier.APIKey) == "" {
			return Result{Name: name, Detail: "openai: missing API key"}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("openai (%s)", cfg.Classifier.Model)}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("unknown provider %q", cfg.Classifier.Provider)}
	}
}

// CheckTranscriptionConfig reports whether audio uploads can be transcribed.
func CheckTranscriptionConfig(cfg *config.Config) Result {
	const name = "Audio transcription"
	if !cfg.Transcription.Enabled {
		return Result{Name: name, Passed: true, Detail: "Disabled (transcripts only)"}
	}
	if strings.TrimSpace(cfg.Transcription.APIKey) == "" {
		return Result{Name: name, Detail: "Missing API key"}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("enabled (%s)", cfg.Transcription.Model)}
}

// CheckEndpoint verifies an OpenAI-compatible endpoint is reachable and
// accepts the key by listing models.
func CheckEndpoint(ctx context.Context, name, baseURL, apiKey string) Result {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing url"}
	}
	if strings.TrimSpace(apiKey) == "" {
		return Result{Name: name, Detail: "missing api key"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, base+"/models", nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("check failed (%v)", err)}
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(apiKey))

	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: summarizeNetError(err)}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return Result{Name: name, Passed: true, Detail: "Reachable"}
	case http.StatusUnauthorized, http.StatusForbidden:
		return Result{Name: name, Detail: "auth failed (invalid api key)"}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("check failed (%d)", resp.StatusCode)}
	}
}

func summarizeNetError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out (endpoint unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (endpoint unreachable)"
	}
	return fmt.Sprintf("check failed (%v)", err)
}
