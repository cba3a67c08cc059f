//go:build testutils

package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevphysionet/sectioner/pkg/store"
)

func TestNoteSource(t *testing.T) {
	CleanDB(t, testDB)
	seedNotes(t, testDB, []NoteSchema{
		{RowID: 30, SubjectID: 1, Text: "HPI: thirty"},
		{RowID: 4, SubjectID: 1, Text: "HPI: four"},
		{RowID: 17, SubjectID: 2, Text: "no headings"},
	})

	src := NewNoteSource(testDB, "noteevents")

	t.Run("GetDocumentIDs", func(t *testing.T) {
		ids, err := src.GetDocumentIDs(testCtx)
		require.NoError(t, err)
		assert.Equal(t, []string{"4", "17", "30"}, ids)
	})

	t.Run("GetDocuments keeps request order", func(t *testing.T) {
		docs, err := src.GetDocuments(testCtx, []string{"30", "4"})
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "30", docs[0].ID)
		assert.Equal(t, "HPI: thirty", docs[0].Text)
		assert.Equal(t, "4", docs[1].ID)
	})

	t.Run("GetDocuments skips unknown ids", func(t *testing.T) {
		docs, err := src.GetDocuments(testCtx, []string{"99", "abc", "17", "17"})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "17", docs[0].ID)
	})

	t.Run("GetDocuments with no ids", func(t *testing.T) {
		docs, err := src.GetDocuments(testCtx, nil)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("missing table", func(t *testing.T) {
		_, err := NewNoteSource(testDB, "no_such_table").GetDocumentIDs(testCtx)
		var storageErr *store.StorageError
		assert.ErrorAs(t, err, &storageErr)
	})
}
