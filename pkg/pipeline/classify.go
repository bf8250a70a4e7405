package pipeline

import "strings"

type Kind int

const (
	Direct Kind = iota
	Augmented
)

// Command prefixes that request a search-augmented answer.
var augmentPrefixes = []string{"!ask", "!search", "!find"}

// Classify decides whether a message wants web augmentation and strips
// the command prefix from the query. When alwaysAugment is set every
// message takes the augmented path.
func Classify(text string, alwaysAugment bool) (Kind, string) {
	trimmed := strings.TrimSpace(text)

	for _, prefix := range augmentPrefixes {
		if trimmed == prefix {
			return Augmented, ""
		}
		if strings.HasPrefix(trimmed, prefix+" ") {
			return Augmented, strings.TrimSpace(trimmed[len(prefix):])
		}
	}

	if alwaysAugment {
		return Augmented, trimmed
	}
	return Direct, trimmed
}
