package batch

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/sevphysionet/sectioner/pkg/models"
)

// RunSource sections every document of src, fetching them in chunks of
// batchSize ids. A positive limit caps the number of documents read.
func (d *Driver) RunSource(
	ctx context.Context,
	src models.DocumentSource,
	batchSize int,
	limit int,
	collector *Collector,
) error {
	ids, err := src.GetDocumentIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get document ids: %w", err)
	}
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}
	if batchSize < 1 {
		batchSize = len(ids)
	}
	log.Infof("Sectioning %s notes", humanize.Comma(int64(len(ids))))

	for start := 0; start < len(ids); start += batchSize {
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}

		docs, err := src.GetDocuments(ctx, ids[start:end])
		if err != nil {
			return fmt.Errorf("failed to get documents %d-%d: %w", start, end, err)
		}

		if err := d.Run(ctx, docs, collector); err != nil {
			return err
		}
	}

	log.Infof(
		"Done: %s sections from %s notes, %s missed",
		humanize.Comma(int64(len(collector.Blocks()))),
		humanize.Comma(int64(collector.SectionedDocuments())),
		humanize.Comma(int64(len(collector.Missed()))),
	)
	return nil
}
