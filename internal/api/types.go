package api

import (
	"studypulse/internal/preflight"
	"studypulse/internal/recommend"
	"studypulse/internal/sessions"
	"studypulse/internal/voice"
)

// EmotionRequest carries one snapshot or a burst of snapshots, each as base64
// or a data URL.
type EmotionRequest struct {
	Image  string   `json:"image,omitempty"`
	Images []string `json:"images,omitempty"`
}

// EmotionResult is the response of an emotion analysis.
type EmotionResult struct {
	Success         bool                     `json:"success"`
	Emotion         string                   `json:"emotion"`
	Confidence      float64                  `json:"confidence"`
	Emotions        map[string]float64       `json:"emotions"`
	Frames          int                      `json:"frames"`
	Recommendations recommend.Recommendation `json:"recommendations"`
	SessionID       string                   `json:"session_id"`
}

// VoiceRequest carries a transcript produced by the browser. The field must be
// present; an empty transcript is a valid, silent sample.
type VoiceRequest struct {
	Transcript *string `json:"transcript" validate:"required"`
}

// NewVoiceRequest wraps transcript in a VoiceRequest.
func NewVoiceRequest(transcript string) VoiceRequest {
	return VoiceRequest{Transcript: &transcript}
}

// VoiceResult is the response of a voice analysis.
type VoiceResult struct {
	Success         bool                     `json:"success"`
	VoiceResult     voice.Analysis           `json:"voice_result"`
	Recommendations recommend.Recommendation `json:"recommendations"`
	SessionID       string                   `json:"session_id"`
}

// RecommendationRequest asks for recommendations without recording a session.
type RecommendationRequest struct {
	Emotion     string `json:"emotion"`
	StressLevel string `json:"stress_level,omitempty"`
}

// RecommendationResult is the response of a recommendation lookup.
type RecommendationResult struct {
	Success         bool                     `json:"success"`
	Recommendations recommend.Recommendation `json:"recommendations"`
}

// SessionsResponse lists recent sessions, newest first.
type SessionsResponse struct {
	Success  bool              `json:"success"`
	Sessions []sessions.Record `json:"sessions"`
}

// StatusResponse describes the running daemon.
type StatusResponse struct {
	Success       bool               `json:"success"`
	Running       bool               `json:"running"`
	PID           int                `json:"pid"`
	StartedAt     string             `json:"started_at"`
	Backend       string             `json:"backend"`
	SessionCount  int                `json:"session_count"`
	Classifier    string             `json:"classifier"`
	Transcription bool               `json:"transcription"`
	FeedClients   int                `json:"feed_clients"`
	Checks        []preflight.Result `json:"checks"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
