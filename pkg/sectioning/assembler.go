package sectioning

import (
	"github.com/sevphysionet/sectioner/internal"
	"github.com/sevphysionet/sectioner/pkg/models"
)

// Assemble turns resolved matches into the sub-sections of a document.
//
// Text before the first match becomes an untitled sub-section with no group.
// Every match then opens a sub-section that starts right after the trigger
// text and runs to the start of the next match, or to the end of the
// document. When two triggers overlap the earlier sub-section is empty.
// Assemble returns nil when resolved is empty.
func Assemble(document, documentID string, resolved []models.Match) []models.SubSection {
	if len(resolved) == 0 {
		return nil
	}

	subSections := make([]models.SubSection, 0, len(resolved)+1)
	emit := func(title, group string, start, end int) {
		if end < start {
			end = start
		}
		index := len(subSections)
		subSections = append(subSections, models.SubSection{
			DocumentID: documentID,
			Title:      title,
			Group:      group,
			Text:       internal.SliceText(document, start, end),
			Span:       models.Span{Start: start, End: end},
			Index:      index,
			SectionID:  models.SectionID(index, documentID),
		})
	}

	if first := resolved[0]; first.Start != 0 {
		emit("", "", 0, first.Start)
	}

	for i, m := range resolved {
		end := len(document)
		if i+1 < len(resolved) {
			end = resolved[i+1].Start
		}
		emit(m.Phrase, m.Group, m.End, end)
	}

	return subSections
}
