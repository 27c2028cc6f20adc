package sessions

import (
	"time"

	"studypulse/internal/recommend"
)

// Kind identifies which analysis produced a result.
type Kind string

const (
	KindEmotion Kind = "emotion"
	KindVoice   Kind = "voice"
)

// AnalysisResult is the outcome of one emotion or voice analysis. Score is the
// classifier confidence for emotion and the energy level for voice.
type AnalysisResult struct {
	Kind        Kind               `json:"kind"`
	Label       string             `json:"label"`
	Score       float64            `json:"score"`
	Timestamp   string             `json:"timestamp"`
	Scores      map[string]float64 `json:"scores,omitempty"`
	Frames      int                `json:"frames,omitempty"`
	Transcript  string             `json:"transcript,omitempty"`
	WordCount   int                `json:"word_count,omitempty"`
	StressLevel string             `json:"stress_level,omitempty"`
}

// Record is one persisted analysis plus the recommendation returned for it.
type Record struct {
	ID             string                   `json:"id"`
	Analysis       AnalysisResult           `json:"analysis"`
	Recommendation recommend.Recommendation `json:"recommendation"`
	Timestamp      string                   `json:"timestamp"`
}

// FormatTimestamp renders t the way records store it.
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}
