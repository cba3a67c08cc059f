package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/uptrace/bun"

	"github.com/sevphysionet/sectioner/pkg/models"
	"github.com/sevphysionet/sectioner/pkg/store"
)

const insertChunkSize = 1000

var _ models.SectionStore = (*SectionStore)(nil)

// SectionStore persists section blocks to the note_section table.
type SectionStore struct {
	db *bun.DB
}

// NewSectionStore creates the note_section table if needed and returns a store for it.
func NewSectionStore(ctx context.Context, db *bun.DB) (*SectionStore, error) {
	if err := CreateSchema(ctx, db); err != nil {
		return nil, store.NewStorageError("failed to create section schema", err)
	}
	return &SectionStore{db: db}, nil
}

// PutSections writes blocks under runID in a single transaction.
func (s *SectionStore) PutSections(
	ctx context.Context,
	runID string,
	blocks []models.SectionBlock,
) error {
	if len(blocks) == 0 {
		log.Warn("PutSections called with no sections")
		return nil
	}

	runUUID, err := uuid.Parse(runID)
	if err != nil {
		return models.NewBadRequestError("invalid run id: " + runID)
	}

	rows := make([]SectionSchema, len(blocks))
	for i, b := range blocks {
		rows[i] = SectionSchema{
			UUID:       uuid.New(),
			RunID:      runUUID,
			DocumentID: b.DocumentID,
			Title:      b.Title,
			Group:      b.Group,
			Text:       b.Text,
			Start:      b.Start,
			End:        b.End,
			Index:      b.Index,
			SectionID:  b.SectionID,
		}
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for start := 0; start < len(rows); start += insertChunkSize {
			end := start + insertChunkSize
			if end > len(rows) {
				end = len(rows)
			}
			chunk := rows[start:end]
			if _, err := tx.NewInsert().Model(&chunk).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return store.NewStorageError("failed to put sections", err)
	}

	log.Debugf("stored %d sections for run %s", len(rows), runID)
	return nil
}

// GetSections returns the blocks most recently stored for a document, in section order.
func (s *SectionStore) GetSections(
	ctx context.Context,
	documentID string,
) ([]models.SectionBlock, error) {
	var rows []SectionSchema
	err := s.db.NewSelect().
		Model(&rows).
		Where("ns.row_id = ?", documentID).
		Where(
			"ns.run_id = (?)",
			s.db.NewSelect().
				Model((*SectionSchema)(nil)).
				Column("run_id").
				Where("row_id = ?", documentID).
				OrderExpr("created_at DESC").
				Limit(1),
		).
		Order("section_index ASC").
		Scan(ctx)
	if err != nil {
		return nil, store.NewStorageError("failed to get sections", err)
	}
	if len(rows) == 0 {
		return nil, models.NewNotFoundError("sections for document " + documentID)
	}

	blocks := make([]models.SectionBlock, len(rows))
	err = copier.Copy(&blocks, &rows)
	if err != nil {
		return nil, store.NewStorageError("failed to copy sections", err)
	}
	for i := range rows {
		blocks[i].Span = models.Span{Start: rows[i].Start, End: rows[i].End}
	}

	return blocks, nil
}
