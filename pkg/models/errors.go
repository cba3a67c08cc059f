package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrBadRequest       = errors.New("bad request")
	ErrConfiguration    = errors.New("configuration error")
	ErrLexiconIntegrity = errors.New("lexicon integrity error")
	ErrSegmentation     = errors.New("segmentation failure")
	// ErrNoSections marks a document in which no trigger phrase was found.
	// It is an outcome recorded in the missed list, never a batch failure.
	ErrNoSections = errors.New("no sections found")
)

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func NewNotFoundError(resource string) error {
	return &NotFoundError{Resource: resource}
}

type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("bad request: %s", e.Message)
}

func (e *BadRequestError) Unwrap() error {
	return ErrBadRequest
}

func NewBadRequestError(message string) error {
	return &BadRequestError{Message: message}
}

// ConfigurationError is fatal: the process cannot continue with the given settings.
type ConfigurationError struct {
	Message       string
	OriginalError error
}

func (e *ConfigurationError) Error() string {
	if e.OriginalError == nil {
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
	return fmt.Sprintf("configuration error: %s (original error: %v)", e.Message, e.OriginalError)
}

func (e *ConfigurationError) Unwrap() []error {
	if e.OriginalError == nil {
		return []error{ErrConfiguration}
	}
	return []error{ErrConfiguration, e.OriginalError}
}

func NewConfigurationError(message string, originalError error) error {
	return &ConfigurationError{Message: message, OriginalError: originalError}
}

// LexiconIntegrityError reports a trigger phrase that was defined more than once.
type LexiconIntegrityError struct {
	Phrase    string
	Group     string
	PrevGroup string
}

func (e *LexiconIntegrityError) Error() string {
	return fmt.Sprintf(
		"duplicate trigger phrase %q (group %q, previously %q)",
		e.Phrase,
		e.Group,
		e.PrevGroup,
	)
}

func (e *LexiconIntegrityError) Unwrap() error {
	return ErrLexiconIntegrity
}

// SegmentationError is an unexpected failure while sectioning one document.
type SegmentationError struct {
	DocumentID    string
	OriginalError error
}

func (e *SegmentationError) Error() string {
	return fmt.Sprintf(
		"failed to section document %s (original error: %v)",
		e.DocumentID,
		e.OriginalError,
	)
}

func (e *SegmentationError) Unwrap() []error {
	return []error{ErrSegmentation, e.OriginalError}
}

func NewSegmentationError(documentID string, originalError error) error {
	return &SegmentationError{DocumentID: documentID, OriginalError: originalError}
}
