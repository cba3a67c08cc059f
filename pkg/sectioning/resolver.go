package sectioning

import (
	"sort"

	"github.com/sevphysionet/sectioner/pkg/models"
)

// Resolve finds all trigger phrases of lex in document and reduces them to a
// start-ordered set of non-conflicting matches.
//
// Phrases are visited longest first. A match sharing its start offset with a
// surviving match is kept only if it ends later; one sharing its end offset is
// kept only if it starts earlier. The loser of either contest is removed from
// both offset indexes. Survivors are then sorted by start and a match lying
// strictly inside its immediate predecessor is dropped. That last check only
// looks at adjacent pairs, so a match nested two or more positions back
// survives. The selection is deterministic but greedy: it does not maximise
// coverage of the document.
func Resolve(document string, lex models.Lexicon) []models.Match {
	return resolve(document, lex, false)
}

// ResolveStrict is Resolve with a nesting check against every earlier kept
// match instead of only the immediate predecessor.
func ResolveStrict(document string, lex models.Lexicon) []models.Match {
	return resolve(document, lex, true)
}

func resolve(document string, lex models.Lexicon, strict bool) []models.Match {
	phrases := lex.Phrases()
	if !containsAny(document, phrases) {
		return nil
	}

	ix := newSpotIndex()
	for _, phrase := range phrases {
		group, _ := lex.Group(phrase)
		for _, m := range FindAll(document, phrase) {
			m.Group = group
			ix.add(m)
		}
	}

	survivors := make([]models.Match, 0, len(ix.byStart))
	for _, m := range ix.byStart {
		survivors = append(survivors, m)
	}
	sort.Slice(survivors, func(i, j int) bool {
		return survivors[i].Start < survivors[j].Start
	})

	if strict {
		return dropEnclosed(survivors)
	}
	return dropAdjacentSubmatches(survivors)
}

// spotIndex holds the surviving matches keyed by both start and end offset.
// Both maps always contain the same set of matches.
type spotIndex struct {
	byStart map[int]models.Match
	byEnd   map[int]models.Match
}

func newSpotIndex() *spotIndex {
	return &spotIndex{
		byStart: make(map[int]models.Match),
		byEnd:   make(map[int]models.Match),
	}
}

func (ix *spotIndex) evict(m models.Match) {
	delete(ix.byStart, m.Start)
	delete(ix.byEnd, m.End)
}

// add contests m against the survivors at the same start, then at the same
// end. m is discarded on the first contest it loses.
func (ix *spotIndex) add(m models.Match) {
	if prior, ok := ix.byStart[m.Start]; ok {
		if m.End <= prior.End {
			return
		}
		ix.evict(prior)
	}

	if prior, ok := ix.byEnd[m.End]; ok {
		if m.Start >= prior.Start {
			return
		}
		ix.evict(prior)
	}

	ix.byStart[m.Start] = m
	ix.byEnd[m.End] = m
}

// dropAdjacentSubmatches removes each match strictly inside the match sorted
// just before it, whether or not that predecessor was itself removed.
func dropAdjacentSubmatches(sorted []models.Match) []models.Match {
	kept := make([]models.Match, 0, len(sorted))
	for i, m := range sorted {
		if i > 0 && sorted[i-1].Contains(m.Span) {
			continue
		}
		kept = append(kept, m)
	}
	return kept
}

// dropEnclosed removes each match strictly inside any earlier kept match.
func dropEnclosed(sorted []models.Match) []models.Match {
	kept := make([]models.Match, 0, len(sorted))
	var widest models.Span
	for _, m := range sorted {
		if len(kept) > 0 && widest.Contains(m.Span) {
			continue
		}
		kept = append(kept, m)
		if len(kept) == 1 || m.End > widest.End {
			widest = m.Span
		}
	}
	return kept
}
