package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevphysionet/sectioner/config"
	"github.com/sevphysionet/sectioner/pkg/app"
	"github.com/sevphysionet/sectioner/pkg/lexicon"
	"github.com/sevphysionet/sectioner/pkg/models"
)

var testEntries = []lexicon.Entry{
	{Group: "Chief Complaint", Phrase: "Chief Complaint:"},
	{Group: "HPI", Phrase: "HPI:"},
	{Group: "HPI", Phrase: "History of Present Illness:"},
}

func newTestAppState(t *testing.T) *app.AppState {
	t.Helper()
	lex, err := lexicon.New(testEntries, lexicon.DuplicateWarn)
	require.NoError(t, err)
	cfg := config.Defaults()
	return app.NewAppStateWithLexicon(&cfg, lex)
}

func newTestServer(t *testing.T, appState *app.AppState) *httptest.Server {
	t.Helper()
	router, err := setupRouter(appState)
	require.NoError(t, err)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

type fakeSectionStore struct {
	blocks map[string][]models.SectionBlock
}

func (f *fakeSectionStore) PutSections(
	_ context.Context,
	_ string,
	blocks []models.SectionBlock,
) error {
	for _, b := range blocks {
		f.blocks[b.DocumentID] = append(f.blocks[b.DocumentID], b)
	}
	return nil
}

func (f *fakeSectionStore) GetSections(
	_ context.Context,
	documentID string,
) ([]models.SectionBlock, error) {
	blocks, ok := f.blocks[documentID]
	if !ok {
		return nil, models.NewNotFoundError("sections for document " + documentID)
	}
	return blocks, nil
}

func TestSectionDocumentHandler(t *testing.T) {
	srv := newTestServer(t, newTestAppState(t))
	url := srv.URL + "/api/v1/sections"

	t.Run("sections a note", func(t *testing.T) {
		resp := postJSON(t, url, models.Document{
			ID:   "1",
			Text: "Chief Complaint: cough\nHPI: fever",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got models.SectionResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.False(t, got.Missed)
		require.Len(t, got.Sections, 2)
		assert.Equal(t, "Chief Complaint:", got.Sections[0].Title)
		assert.Equal(t, "chief complaint", got.Sections[0].Group)
		assert.Equal(t, " cough\n", got.Sections[0].Text)
		assert.Equal(t, "1|1.txt", got.Sections[1].SectionID)
		assert.Equal(t, " fever", got.Sections[1].Text)
	})

	t.Run("missed note", func(t *testing.T) {
		resp := postJSON(t, url, models.Document{ID: "2", Text: "no triggers"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got models.SectionResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.True(t, got.Missed)
		assert.Empty(t, got.Sections)
	})

	t.Run("missing document id", func(t *testing.T) {
		resp := postJSON(t, url, models.Document{Text: "HPI: x"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, err := http.Post(url, "application/json", bytes.NewBufferString("{"))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var apiErr APIError
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&apiErr))
		assert.NotEmpty(t, apiErr.Message)
	})
}

func TestSectionBatchHandler(t *testing.T) {
	srv := newTestServer(t, newTestAppState(t))
	url := srv.URL + "/api/v1/sections/batch"

	t.Run("sections a batch", func(t *testing.T) {
		resp := postJSON(t, url, models.BatchSectionRequest{
			Documents: []models.Document{
				{ID: "1", Text: "HPI: a\nHistory of Present Illness: b"},
				{ID: "2", Text: "nothing here"},
				{ID: "3", Text: "intro\nChief Complaint: c"},
			},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got models.BatchSectionResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, []string{"2"}, got.Missed)

		require.Len(t, got.Sections, 3)
		// both HPI triggers merge into one block
		assert.Equal(t, "1", got.Sections[0].DocumentID)
		assert.Equal(t, "hpi", got.Sections[0].Group)
		assert.Equal(t, " a\nHistory of Present Illness: b", got.Sections[0].Text)
		assert.Equal(t, "", got.Sections[1].Title)
		assert.Equal(t, "3", got.Sections[2].DocumentID)
	})

	t.Run("empty batch", func(t *testing.T) {
		resp := postJSON(t, url, models.BatchSectionRequest{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("too many documents", func(t *testing.T) {
		docs := make([]models.Document, models.MaxBatchDocuments+1)
		for i := range docs {
			docs[i] = models.Document{ID: "x", Text: ""}
		}
		resp := postJSON(t, url, models.BatchSectionRequest{Documents: docs})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetSectionsHandler(t *testing.T) {
	t.Run("store disabled", func(t *testing.T) {
		srv := newTestServer(t, newTestAppState(t))
		resp, err := http.Get(srv.URL + "/api/v1/sections/1")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
	})

	appState := newTestAppState(t)
	appState.SectionStore = &fakeSectionStore{blocks: map[string][]models.SectionBlock{}}
	require.NoError(t, appState.SectionStore.PutSections(
		context.Background(),
		"run",
		[]models.SectionBlock{{DocumentID: "7", Title: "HPI:", Group: "hpi", Text: " x"}},
	))
	srv := newTestServer(t, appState)

	t.Run("found", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/sections/7")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got []models.SectionBlock
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		require.Len(t, got, 1)
		assert.Equal(t, "hpi", got[0].Group)
	})

	t.Run("not found", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/sections/8")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGetLexiconHandler(t *testing.T) {
	srv := newTestServer(t, newTestAppState(t))

	resp, err := http.Get(srv.URL + "/api/v1/lexicon")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.LexiconResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 3, got.PhraseCount)
	assert.Equal(t, []models.LexiconGroup{
		{Group: "chief complaint", Phrases: []string{"Chief Complaint:"}},
		{Group: "hpi", Phrases: []string{"HPI:", "History of Present Illness:"}},
	}, got.Groups)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, newTestAppState(t))

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
