package postgres

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestGenerateNotes(t *testing.T) {
	notes := GenerateNotes(50, 7)
	require.Len(t, notes, 50)

	withHeadings := 0
	for i, n := range notes {
		assert.Equal(t, int64(i+1), n.RowID)
		assert.NotEmpty(t, n.Text)
		for _, h := range FixtureHeadings {
			if strings.Contains(n.Text, h) {
				withHeadings++
				break
			}
		}
	}
	assert.Greater(t, withHeadings, 0)

	assert.Equal(t, notes, GenerateNotes(50, 7), "same seed yields the same corpus")
}

func TestGenerateFixtureData(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fixtures")
	require.NoError(t, GenerateFixtureData(5, dir))

	data, err := os.ReadFile(filepath.Join(dir, "note_fixtures.yaml"))
	require.NoError(t, err)

	var fixtures Fixtures[NoteSchema]
	require.NoError(t, yaml.Unmarshal(data, &fixtures))
	require.Len(t, fixtures, 1)
	assert.Equal(t, "NoteSchema", fixtures[0].Model)
	assert.Len(t, fixtures[0].Rows, 5)
}
