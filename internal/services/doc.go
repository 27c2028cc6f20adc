// Package services defines shared utilities consumed by the analysis pipeline
// and the external classifier integrations.
//
// Key responsibilities:
//   - Context helpers that stamp request identifiers and analysis kinds for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent HTTP statuses at the request boundary.
//
// Subpackages hold the remote integrations (vision classification and audio
// transcription) so the core packages stay free of network code.
package services
