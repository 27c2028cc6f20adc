// Package transcribe turns uploaded audio into text through an
// OpenAI-compatible transcription endpoint.
package transcribe
