package voice

import (
	"context"
	"io"

	"studypulse/internal/services"
)

// ErrTranscriptionDisabled is returned when an audio upload arrives but no
// transcription backend is configured.
var ErrTranscriptionDisabled = services.Mark(services.ErrNotImplemented, "audio transcription is not configured; send a transcript")

// Audio is an uploaded recording.
type Audio struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Transcriber converts recorded audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio Audio) (string, error)
}

// Disabled is the Transcriber used when transcription is turned off.
type Disabled struct{}

func (Disabled) Transcribe(context.Context, Audio) (string, error) {
	return "", ErrTranscriptionDisabled
}
