// Package api defines the wire-format types and the Assistant service shared
// by the HTTP daemon and the CLI.
//
// # Key Types
//
// Assistant: orchestrates one analysis end to end. It decodes the payload,
// calls the external classifier or transcriber, classifies, looks up the
// recommendation, records the session and returns a DTO.
//
// EmotionRequest/EmotionResult, VoiceRequest/VoiceResult,
// RecommendationRequest/RecommendationResult: request and response bodies of
// the analysis endpoints.
//
// SessionsResponse, StatusResponse, ErrorResponse: history, daemon status and
// the failure envelope.
//
// # Design Notes
//
// DTOs use snake_case JSON tags to match the browser front end. Every
// response carries a success flag. Failures collapse to {success:false,
// error} at the request boundary; StatusFor picks the HTTP status from the
// error markers in package services.
package api
