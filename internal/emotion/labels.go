package emotion

import "strings"

const (
	Happy    = "happy"
	Sad      = "sad"
	Angry    = "angry"
	Fear     = "fear"
	Surprise = "surprise"
	Neutral  = "neutral"
	Disgust  = "disgust"
)

// Labels is the fixed label set. Its order breaks ties in Dominant.
var Labels = []string{Happy, Sad, Angry, Fear, Surprise, Neutral, Disgust}

// IsLabel reports whether label belongs to the label set.
func IsLabel(label string) bool {
	_, ok := labelRank[NormalizeLabel(label)]
	return ok
}

// NormalizeLabel lower-cases and trims a label.
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

var labelRank = func() map[string]int {
	rank := make(map[string]int, len(Labels))
	for i, label := range Labels {
		rank[label] = i
	}
	return rank
}()
