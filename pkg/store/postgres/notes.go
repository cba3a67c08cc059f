package postgres

import (
	"context"
	"strconv"

	"github.com/uptrace/bun"

	"github.com/sevphysionet/sectioner/internal"
	"github.com/sevphysionet/sectioner/pkg/models"
	"github.com/sevphysionet/sectioner/pkg/store"
)

const DefaultNoteTable = "mimiciii.noteevents"

var _ models.DocumentSource = (*NoteSource)(nil)

// NoteSource reads clinical notes from a noteevents table. Document ids are
// row_id values rendered in base 10.
type NoteSource struct {
	db    *bun.DB
	table string
}

func NewNoteSource(db *bun.DB, table string) *NoteSource {
	if table == "" {
		table = DefaultNoteTable
	}
	return &NoteSource{db: db, table: table}
}

func (s *NoteSource) model(m interface{}) *bun.SelectQuery {
	return s.db.NewSelect().
		Model(m).
		ModelTableExpr("? AS n", bun.Ident(s.table))
}

// GetDocumentIDs returns every distinct row_id in ascending order.
func (s *NoteSource) GetDocumentIDs(ctx context.Context) ([]string, error) {
	var rowIDs []int64
	err := s.model((*NoteSchema)(nil)).
		ColumnExpr("DISTINCT n.row_id").
		OrderExpr("n.row_id ASC").
		Scan(ctx, &rowIDs)
	if err != nil {
		return nil, store.NewStorageError("failed to get note ids", err)
	}

	ids := make([]string, len(rowIDs))
	for i, id := range rowIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return ids, nil
}

// GetDocuments returns notes in the order of ids, once per id. Ids that are not
// integers or that have no row are skipped.
func (s *NoteSource) GetDocuments(ctx context.Context, ids []string) ([]models.Document, error) {
	rowIDs := make([]int64, 0, len(ids))
	for _, id := range ids {
		rowID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			log.Warnf("skipping non-numeric note id %q", id)
			continue
		}
		rowIDs = append(rowIDs, rowID)
	}
	rowIDs = internal.UniqueOrdered(rowIDs)
	if len(rowIDs) == 0 {
		return nil, nil
	}

	var notes []NoteSchema
	err := s.model(&notes).
		Column("row_id", "text").
		Where("n.row_id IN (?)", bun.In(rowIDs)).
		Scan(ctx)
	if err != nil {
		return nil, store.NewStorageError("failed to get notes", err)
	}

	byID := make(map[int64]string, len(notes))
	for _, n := range notes {
		byID[n.RowID] = n.Text
	}

	docs := make([]models.Document, 0, len(notes))
	for _, rowID := range rowIDs {
		text, ok := byID[rowID]
		if !ok {
			continue
		}
		docs = append(docs, models.Document{
			ID:   strconv.FormatInt(rowID, 10),
			Text: text,
		})
	}
	return docs, nil
}

func (s *NoteSource) Close() error {
	return s.db.Close()
}
