package voice

import (
	"math"
	"strings"
)

// StressLevel is the coarse three-value stress classification.
type StressLevel string

const (
	StressLow    StressLevel = "Low"
	StressMedium StressLevel = "Medium"
	StressHigh   StressLevel = "High"
)

const (
	mediumThreshold = 10
	highThreshold   = 20
	energyPerWord   = 5.0
	maxEnergy       = 100.0
)

// Analysis is the word-count based reading of a transcript.
type Analysis struct {
	Transcript  string      `json:"transcript"`
	WordCount   int         `json:"word_count"`
	StressLevel StressLevel `json:"stress_level"`
	EnergyLevel float64     `json:"energy_level"`
}

// WordCount counts whitespace-separated words.
func WordCount(transcript string) int {
	return len(strings.Fields(transcript))
}

// ClassifyWords maps a word count onto a stress level.
func ClassifyWords(words int) StressLevel {
	switch {
	case words < mediumThreshold:
		return StressLow
	case words < highThreshold:
		return StressMedium
	default:
		return StressHigh
	}
}

// ClassifyStress derives the stress level of a transcript. Empty input is Low.
func ClassifyStress(transcript string) StressLevel {
	return ClassifyWords(WordCount(transcript))
}

// EnergyLevel is five points per word, capped at 100.
func EnergyLevel(words int) float64 {
	if words <= 0 {
		return 0
	}
	return math.Min(maxEnergy, float64(words)*energyPerWord)
}

// Analyze returns transcript, word count, stress and energy together.
func Analyze(transcript string) Analysis {
	words := WordCount(transcript)
	return Analysis{
		Transcript:  strings.TrimSpace(transcript),
		WordCount:   words,
		StressLevel: ClassifyWords(words),
		EnergyLevel: EnergyLevel(words),
	}
}
