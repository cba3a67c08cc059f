package lexicon

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sevphysionet/sectioner/internal"
	"github.com/sevphysionet/sectioner/pkg/models"
)

var log = internal.GetLogger()

// DuplicatePolicy decides how a phrase defined more than once is handled.
type DuplicatePolicy string

const (
	// DuplicateWarn logs each redefinition and keeps the last group.
	DuplicateWarn DuplicatePolicy = "warn"
	// DuplicateLastWins keeps the last group without logging.
	DuplicateLastWins DuplicatePolicy = "last"
	// DuplicateReject fails construction on the first redefinition.
	DuplicateReject DuplicatePolicy = "reject"
)

func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case DuplicateWarn, DuplicateLastWins, DuplicateReject:
		return p, nil
	case "":
		return DuplicateWarn, nil
	default:
		return "", models.NewConfigurationError(
			fmt.Sprintf("unknown duplicate phrase policy %q", s),
			nil,
		)
	}
}

// Entry is one row of a trigger table.
type Entry struct {
	Group  string
	Phrase string
}

// Lexicon maps trigger phrases to section groups. It is immutable once built
// and safe for concurrent use.
type Lexicon struct {
	groupToPhrases map[string][]string
	phraseToGroup  map[string]string
	allPhrases     []string
}

var _ models.Lexicon = &Lexicon{}

// New builds a Lexicon from entries in source order. Group names are
// lower-cased and the two-character sequence `\n` in a phrase becomes a
// newline. Empty phrases are skipped.
func New(entries []Entry, policy DuplicatePolicy) (*Lexicon, error) {
	phraseToGroup := make(map[string]string, len(entries))
	sourceOrder := make([]string, 0, len(entries))

	for _, e := range entries {
		phrase := ExpandEscapes(e.Phrase)
		if phrase == "" {
			continue
		}
		group := strings.ToLower(strings.TrimSpace(e.Group))

		if prev, ok := phraseToGroup[phrase]; ok {
			switch policy {
			case DuplicateReject:
				return nil, &models.LexiconIntegrityError{
					Phrase:    phrase,
					Group:     group,
					PrevGroup: prev,
				}
			case DuplicateLastWins:
			default:
				log.Warnf(
					"duplicate trigger phrase %q: group %q replaces %q",
					phrase,
					group,
					prev,
				)
			}
			phraseToGroup[phrase] = group
			continue
		}

		phraseToGroup[phrase] = group
		sourceOrder = append(sourceOrder, phrase)
	}

	if len(sourceOrder) == 0 {
		return nil, models.NewConfigurationError("lexicon contains no trigger phrases", nil)
	}

	groupToPhrases := make(map[string][]string)
	for _, phrase := range sourceOrder {
		group := phraseToGroup[phrase]
		groupToPhrases[group] = append(groupToPhrases[group], phrase)
	}

	allPhrases := make([]string, len(sourceOrder))
	copy(allPhrases, sourceOrder)
	sort.SliceStable(allPhrases, func(i, j int) bool {
		return len(allPhrases[i]) > len(allPhrases[j])
	})

	log.Debugf("lexicon built: %d phrases in %d groups", len(allPhrases), len(groupToPhrases))

	return &Lexicon{
		groupToPhrases: groupToPhrases,
		phraseToGroup:  phraseToGroup,
		allPhrases:     allPhrases,
	}, nil
}

// ExpandEscapes turns the literal two-character sequence `\n` into a newline.
func ExpandEscapes(phrase string) string {
	return strings.ReplaceAll(phrase, `\n`, "\n")
}

// Phrases returns all phrases ordered by descending length, ties in source order.
func (l *Lexicon) Phrases() []string {
	out := make([]string, len(l.allPhrases))
	copy(out, l.allPhrases)
	return out
}

func (l *Lexicon) Group(phrase string) (string, bool) {
	g, ok := l.phraseToGroup[phrase]
	return g, ok
}

// Groups returns the group names in sorted order.
func (l *Lexicon) Groups() []string {
	groups := make([]string, 0, len(l.groupToPhrases))
	for g := range l.groupToPhrases {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// PhrasesFor returns the phrases of a group in source order.
func (l *Lexicon) PhrasesFor(group string) []string {
	phrases := l.groupToPhrases[strings.ToLower(group)]
	out := make([]string, len(phrases))
	copy(out, phrases)
	return out
}

// GroupToPhrases returns a copy of the group to phrase list mapping.
func (l *Lexicon) GroupToPhrases() map[string][]string {
	out := make(map[string][]string, len(l.groupToPhrases))
	for g := range l.groupToPhrases {
		out[g] = l.PhrasesFor(g)
	}
	return out
}

// PhraseToGroup returns a copy of the phrase to group mapping.
func (l *Lexicon) PhraseToGroup() map[string]string {
	out := make(map[string]string, len(l.phraseToGroup))
	for p, g := range l.phraseToGroup {
		out[p] = g
	}
	return out
}

func (l *Lexicon) Len() int {
	return len(l.allPhrases)
}
