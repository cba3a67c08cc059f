package sectioning

import (
	"strings"

	"github.com/sevphysionet/sectioner/pkg/models"
)

// FindAll returns every occurrence of phrase in document, left to right.
// Matching is literal and case-sensitive, and the search resumes at the end
// of each match so occurrences never overlap one another. It returns nil
// when the phrase does not occur.
func FindAll(document, phrase string) []models.Match {
	if phrase == "" {
		return nil
	}

	var matches []models.Match
	offset := 0
	for offset <= len(document)-len(phrase) {
		i := strings.Index(document[offset:], phrase)
		if i < 0 {
			break
		}
		start := offset + i
		end := start + len(phrase)
		matches = append(matches, models.Match{
			Phrase: phrase,
			Span:   models.Span{Start: start, End: end},
		})
		offset = end
	}

	return matches
}

// containsAny reports whether any phrase occurs in document.
func containsAny(document string, phrases []string) bool {
	for _, p := range phrases {
		if p != "" && strings.Contains(document, p) {
			return true
		}
	}
	return false
}
