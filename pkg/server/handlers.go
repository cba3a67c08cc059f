package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/sevphysionet/sectioner/pkg/app"
	"github.com/sevphysionet/sectioner/pkg/batch"
	"github.com/sevphysionet/sectioner/pkg/models"
)

var validate = validator.New()

var ErrSectionStoreDisabled = errors.New("section store is not configured")

// SectionDocumentHandler sections a single document posted as {document_id, text}.
func SectionDocumentHandler(appState *app.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var doc models.Document
		if err := decodeJSON(r, &doc); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}
		if err := validate.Struct(doc); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}

		result := appState.Segmenter.Section(doc)
		resp := models.SectionResponse{
			Sections: result.Blocks,
			Missed:   result.Missed(),
		}
		if resp.Sections == nil {
			resp.Sections = []models.SectionBlock{}
		}

		if err := encodeJSON(w, resp); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// SectionBatchHandler sections a list of documents with the batch driver.
// Documents that fail or have no sections are listed as missed.
func SectionBatchHandler(appState *app.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.BatchSectionRequest
		if err := decodeJSON(r, &req); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}

		log.Debugf(
			"sectioning %d documents for request %s",
			len(req.Documents),
			middleware.GetReqID(r.Context()),
		)

		collector := batch.NewCollector()
		if err := appState.NewDriver().Run(r.Context(), req.Documents, collector); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}

		resp := models.BatchSectionResponse{
			Sections: collector.Blocks(),
			Missed:   collector.Missed(),
		}
		if resp.Sections == nil {
			resp.Sections = []models.SectionBlock{}
		}
		if resp.Missed == nil {
			resp.Missed = []string{}
		}

		if err := encodeJSON(w, resp); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// GetSectionsHandler returns the stored sections of a document from the latest run.
func GetSectionsHandler(appState *app.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if appState.SectionStore == nil {
			renderError(w, ErrSectionStoreDisabled, http.StatusNotImplemented)
			return
		}

		documentID := chi.URLParam(r, "documentId")
		blocks, err := appState.SectionStore.GetSections(r.Context(), documentID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				renderError(w, err, http.StatusNotFound)
				return
			}
			renderError(w, err, http.StatusInternalServerError)
			return
		}

		if err := encodeJSON(w, blocks); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// GetLexiconHandler lists every section group with its trigger phrases.
func GetLexiconHandler(appState *app.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups := appState.Lexicon.Groups()
		resp := models.LexiconResponse{
			PhraseCount: appState.Lexicon.Len(),
			Groups:      make([]models.LexiconGroup, len(groups)),
		}
		for i, g := range groups {
			resp.Groups[i] = models.LexiconGroup{
				Group:   g,
				Phrases: appState.Lexicon.PhrasesFor(g),
			}
		}

		if err := encodeJSON(w, resp); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}
