package models

import "context"

// Document is a single clinical note. Integer corpus ids are rendered in base 10.
type Document struct {
	ID   string `json:"document_id" validate:"required"`
	Text string `json:"text"`
}

// DocumentSource retrieves notes from a corpus.
type DocumentSource interface {
	// GetDocumentIDs returns every distinct document id in corpus order.
	GetDocumentIDs(ctx context.Context) ([]string, error)
	// GetDocuments returns the documents for ids. Ids with no document are skipped.
	GetDocuments(ctx context.Context, ids []string) ([]Document, error)
	Close() error
}

// SectionStore persists section blocks produced by a run.
type SectionStore interface {
	PutSections(ctx context.Context, runID string, blocks []SectionBlock) error
	GetSections(ctx context.Context, documentID string) ([]SectionBlock, error)
}

// Lexicon is the read-only view of a trigger phrase lexicon used while sectioning.
type Lexicon interface {
	// Phrases returns every trigger phrase, longest first.
	Phrases() []string
	// Group returns the section group a phrase maps to.
	Group(phrase string) (string, bool)
}
