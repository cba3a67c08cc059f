//go:build testutils

package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func CleanDB(t *testing.T, db *bun.DB) {
	_, err := db.NewDropTable().
		Model(&SectionSchema{}).
		Cascade().
		IfExists().
		Exec(context.Background())
	require.NoError(t, err)

	_, err = db.NewDropTable().
		Model(&NoteSchema{}).
		Cascade().
		IfExists().
		Exec(context.Background())
	require.NoError(t, err)
}

// seedNotes recreates the noteevents table with notes.
func seedNotes(t *testing.T, db *bun.DB, notes []NoteSchema) {
	ctx := context.Background()
	_, err := db.NewDropTable().Model((*NoteSchema)(nil)).IfExists().Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewCreateTable().Model((*NoteSchema)(nil)).Exec(ctx)
	require.NoError(t, err)
	if len(notes) > 0 {
		_, err = db.NewInsert().Model(&notes).Exec(ctx)
		require.NoError(t, err)
	}
}
