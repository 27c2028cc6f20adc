package emotion

import (
	"context"
	"math"

	"studypulse/internal/services"
)

// ErrNoFace is reported when a classifier finds no face in any frame.
var ErrNoFace = services.Mark(services.ErrUnprocessable, "no face detected")

// Scores maps emotion labels to percentages.
type Scores map[string]float64

// Reading is one classifier result.
type Reading struct {
	Dominant     string  `json:"dominant"`
	Confidence   float64 `json:"confidence"`
	Scores       Scores  `json:"scores"`
	FaceDetected bool    `json:"face_detected"`
}

// Classifier labels the emotion shown in an image.
type Classifier interface {
	Classify(ctx context.Context, img Image) (Reading, error)
}

// Normalize keeps only known labels, lower-cases keys and clamps values to
// [0, 100]. Non-finite values are dropped.
func (s Scores) Normalize() Scores {
	out := make(Scores, len(s))
	for key, value := range s {
		label := NormalizeLabel(key)
		if !IsLabel(label) || math.IsNaN(value) || math.IsInf(value, 0) {
			continue
		}
		out[label] += math.Max(0, math.Min(100, value))
	}
	return out
}

// Dominant returns the highest scoring label. Ties go to the label listed
// first in Labels. Empty or all-zero scores yield neutral with zero
// confidence.
func Dominant(scores Scores) (string, float64) {
	best, bestScore := "", math.Inf(-1)
	for _, label := range Labels {
		value, ok := scores[label]
		if !ok {
			continue
		}
		if value > bestScore {
			best, bestScore = label, value
		}
	}
	if best == "" || bestScore <= 0 {
		return Neutral, 0
	}
	return best, bestScore
}

// NewReading builds a reading with a face from raw scores.
func NewReading(scores Scores) Reading {
	normalized := scores.Normalize()
	label, confidence := Dominant(normalized)
	return Reading{Dominant: label, Confidence: confidence, Scores: normalized, FaceDetected: true}
}

// Aggregate averages per-label scores over frames that contained a face and
// picks the dominant label of the average. It returns ErrNoFace if no frame
// had one.
func Aggregate(readings []Reading) (Reading, error) {
	sums := Scores{}
	detections := 0
	for _, reading := range readings {
		if !reading.FaceDetected {
			continue
		}
		detections++
		for label, value := range reading.Scores.Normalize() {
			sums[label] += value
		}
	}
	if detections == 0 {
		return Reading{}, ErrNoFace
	}
	for label := range sums {
		sums[label] = round2(sums[label] / float64(detections))
	}
	label, confidence := Dominant(sums)
	return Reading{Dominant: label, Confidence: confidence, Scores: sums, FaceDetected: true}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Static always reports a neutral face. It stands in when no remote
// classifier is configured.
type Static struct{}

func (Static) Classify(context.Context, Image) (Reading, error) {
	return Reading{Dominant: Neutral, Confidence: 100, Scores: Scores{Neutral: 100}, FaceDetected: true}, nil
}
