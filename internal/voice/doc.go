// Package voice classifies coarse stress and energy levels from spoken-input
// transcripts and defines the Transcriber boundary for audio uploads.
package voice
