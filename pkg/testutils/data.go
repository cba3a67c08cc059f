//go:build testutils

package testutils

import (
	"github.com/sevphysionet/sectioner/pkg/lexicon"
	"github.com/sevphysionet/sectioner/pkg/models"
)

var TestLexiconEntries = []lexicon.Entry{
	{Group: "Chief Complaint", Phrase: "Chief Complaint:"},
	{Group: "HPI", Phrase: "HPI:"},
	{Group: "HPI", Phrase: "History of Present Illness:"},
	{Group: "Past Medical History", Phrase: "Past Medical History:"},
	{Group: "Medications", Phrase: "MEDICATIONS:"},
	{Group: "Medications", Phrase: "Medications on Admission:"},
	{Group: "Plan", Phrase: "Plan:"},
}

var TestDocuments = []models.Document{
	{
		ID:   "1",
		Text: "Chief Complaint: cough\nHPI: 3 days of fever\nPlan: rest",
	},
	{
		ID:   "2",
		Text: "Admission note.\nMEDICATIONS: aspirin\nMedications on Admission: none",
	},
	{
		ID:   "3",
		Text: "No headings in this note.",
	},
}

func NewTestLexicon() *lexicon.Lexicon {
	lex, err := lexicon.New(TestLexiconEntries, lexicon.DuplicateWarn)
	if err != nil {
		panic(err)
	}
	return lex
}
