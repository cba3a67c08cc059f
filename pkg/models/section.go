package models

import "fmt"

// Span is a half-open byte interval [Start, End) into a document.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether o lies strictly inside s on both sides.
func (s Span) Contains(o Span) bool {
	return s.Start < o.Start && o.End < s.End
}

// Match is an occurrence of a trigger phrase. End-Start always equals len(Phrase).
type Match struct {
	Phrase string `json:"phrase"`
	Span
	Group string `json:"group"`
}

// SubSection is the text between one resolved trigger and the next. The
// leading region before the first trigger has an empty Title and Group.
type SubSection struct {
	DocumentID string `json:"row_id"`
	Title      string `json:"extracted_section_title"`
	Group      string `json:"section_group"`
	Text       string `json:"section_text"`
	Span
	Index     int    `json:"index"`
	SectionID string `json:"section_id"`
}

// SectionBlock is a run of consecutive SubSections sharing a Group. Title,
// Index and SectionID come from the first SubSection of the run.
type SectionBlock SubSection

// SectionID builds the key downstream consumers use to join sections back to notes.
func SectionID(index int, documentID string) string {
	return fmt.Sprintf("%d|%s.txt", index, documentID)
}
