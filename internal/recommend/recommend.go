package recommend

import (
	"slices"
	"sort"
	"strings"
)

// Recommendation is a set of study tips, a quote and suggested activities for
// one emotion or stress label.
type Recommendation struct {
	Key                   string   `json:"key"`
	StudyTips             []string `json:"study_tips"`
	MotivationalQuote     string   `json:"motivational_quote"`
	RecommendedActivities []string `json:"recommended_activities"`
}

// Lookup returns the recommendation for an emotion or stress label. A
// recognised stress override wins over the label; unknown labels resolve to
// the neutral entry.
func Lookup(label, stressOverride string) Recommendation {
	return entry(ResolveKey(label, stressOverride))
}

// ResolveKey reports which table entry Lookup would use.
func ResolveKey(label, stressOverride string) string {
	if key := normalize(stressOverride); isStressKey(key) {
		return key
	}
	key := normalize(label)
	if _, ok := table[key]; ok {
		return key
	}
	return KeyNeutral
}

// Has reports whether label names an entry of the table.
func Has(label string) bool {
	_, ok := table[normalize(label)]
	return ok
}

// Keys lists all table keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func entry(key string) Recommendation {
	rec, ok := table[key]
	if !ok {
		key = KeyNeutral
		rec = table[KeyNeutral]
	}
	return Recommendation{
		Key:                   key,
		StudyTips:             slices.Clone(rec.StudyTips),
		MotivationalQuote:     rec.MotivationalQuote,
		RecommendedActivities: slices.Clone(rec.RecommendedActivities),
	}
}

func normalize(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

func isStressKey(key string) bool {
	switch key {
	case KeyLow, KeyMedium, KeyHigh:
		return true
	default:
		return false
	}
}
