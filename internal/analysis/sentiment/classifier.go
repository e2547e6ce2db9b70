package sentiment

import "strings"

// Label classifies the learner's state as inferred from their message.
type Label string

const (
	Neutral  Label = "neutral"
	Confused Label = "confused"
	Curious  Label = "curious"
)

// Keyword buckets are matched as case-insensitive substrings. Confusion
// markers take priority over curiosity markers when both appear.
var confusionMarkers = []string{
	"confus", "don't understand", "help", "difficult",
}

var curiosityMarkers = []string{
	"interesting", "learn", "explain", "what is",
}

// Classify maps a user message to a sentiment label. It is deterministic and
// pure; an empty message yields Neutral.
func Classify(text string) Label {
	normalized := strings.ToLower(text)
	if containsAny(normalized, confusionMarkers) {
		return Confused
	}
	if containsAny(normalized, curiosityMarkers) {
		return Curious
	}
	return Neutral
}

func containsAny(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
