package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevphysionet/sectioner/pkg/models"
)

func newTestDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"200.txt":   "HPI: second",
		"100.txt":   "HPI: first",
		"notes.csv": "not a note",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.txt"), 0o755))
	return dir
}

func TestNoteDir(t *testing.T) {
	ctx := context.Background()
	src, err := NewNoteDir(newTestDir(t))
	require.NoError(t, err)
	defer src.Close()

	t.Run("GetDocumentIDs", func(t *testing.T) {
		ids, err := src.GetDocumentIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"100", "200"}, ids)
	})

	t.Run("GetDocuments", func(t *testing.T) {
		docs, err := src.GetDocuments(ctx, []string{"200", "missing", "../100", "100"})
		require.NoError(t, err)
		assert.Equal(t, []models.Document{
			{ID: "200", Text: "HPI: second"},
			{ID: "100", Text: "HPI: first"},
		}, docs)
	})

	t.Run("Cancelled", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := src.GetDocuments(cancelled, []string{"100"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewNoteDir(t *testing.T) {
	_, err := NewNoteDir(filepath.Join(t.TempDir(), "absent"))
	assert.ErrorIs(t, err, models.ErrConfiguration)

	file := filepath.Join(t.TempDir(), "note.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = NewNoteDir(file)
	assert.ErrorIs(t, err, models.ErrConfiguration)
}
