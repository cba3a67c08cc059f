package models

// MaxBatchDocuments caps the number of documents in one batch request.
const MaxBatchDocuments = 1000

type BatchSectionRequest struct {
	Documents []Document `json:"documents" validate:"required,min=1,max=1000,dive"`
}

type SectionResponse struct {
	Sections []SectionBlock `json:"sections"`
	Missed   bool           `json:"missed"`
}

type BatchSectionResponse struct {
	Sections []SectionBlock `json:"sections"`
	Missed   []string       `json:"missed"`
}

type LexiconGroup struct {
	Group   string   `json:"group"`
	Phrases []string `json:"phrases"`
}

type LexiconResponse struct {
	PhraseCount int            `json:"phrase_count"`
	Groups      []LexiconGroup `json:"groups"`
}
