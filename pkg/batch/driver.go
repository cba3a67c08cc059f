package batch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/sevphysionet/sectioner/internal"
	"github.com/sevphysionet/sectioner/pkg/models"
	"github.com/sevphysionet/sectioner/pkg/sectioning"
)

var log = internal.GetLogger()

// Sectioner sections a single document.
type Sectioner interface {
	Section(doc models.Document) *sectioning.Result
}

var _ Sectioner = &sectioning.Segmenter{}

// Settings controls how a Driver runs a batch.
type Settings struct {
	// Workers is the number of documents sectioned concurrently. Values
	// below 1 mean 1.
	Workers int
	// FailFast aborts the batch on the first document that fails instead of
	// recording it as missed and moving on.
	FailFast bool
	// ProgressEvery logs a progress line every N documents. 0 disables it.
	ProgressEvery int
}

// Driver sections batches of documents and records the outcome of each one
// in a Collector. Output order always follows input order, whatever the
// number of workers.
type Driver struct {
	sectioner Sectioner
	settings  Settings
	processed atomic.Int64
}

func NewDriver(sectioner Sectioner, settings Settings) *Driver {
	if settings.Workers < 1 {
		settings.Workers = 1
	}
	return &Driver{sectioner: sectioner, settings: settings}
}

// Processed is the number of documents handled so far across all runs.
func (d *Driver) Processed() int64 {
	return d.processed.Load()
}

type outcome struct {
	done   bool
	result *sectioning.Result
	err    error
}

// Run sections documents and adds the results to collector. A document
// without any trigger phrase is recorded as missed. A document that fails is
// also recorded as missed; with FailFast the failure is returned and the
// remaining documents are skipped. Cancelling ctx stops the batch between
// documents and returns the context error.
func (d *Driver) Run(ctx context.Context, documents []models.Document, collector *Collector) error {
	outcomes := make([]outcome, len(documents))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.settings.Workers)

	for i := range documents {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := d.sectionOne(documents[i])
			outcomes[i] = outcome{done: true, result: result, err: err}
			if err != nil && d.settings.FailFast {
				return err
			}
			return nil
		})
	}
	waitErr := g.Wait()

	for i, o := range outcomes {
		if !o.done {
			continue
		}
		doc := documents[i]
		d.progress()

		switch {
		case o.err != nil:
			log.Warnf("Failed to section: %s: %v", doc.ID, o.err)
			collector.Miss(doc.ID)
			if d.settings.FailFast {
				return o.err
			}
		case o.result.Missed():
			internal.WithDocument(doc.ID).Debug("no sections found")
			collector.Miss(doc.ID)
		default:
			collector.Add(o.result.Blocks...)
		}
	}

	if waitErr != nil {
		return fmt.Errorf("batch stopped: %w", waitErr)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("batch stopped: %w", err)
	}
	return nil
}

// sectionOne converts a panic inside the pipeline into a SegmentationError.
func (d *Driver) sectionOne(doc models.Document) (result *sectioning.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = models.NewSegmentationError(doc.ID, fmt.Errorf("panic: %v", r))
		}
	}()

	if d.sectioner == nil {
		return nil, models.NewSegmentationError(doc.ID, errors.New("no sectioner configured"))
	}
	return d.sectioner.Section(doc), nil
}

func (d *Driver) progress() {
	n := d.processed.Add(1)
	if every := int64(d.settings.ProgressEvery); every > 0 && n%every == 0 {
		log.Infof("Sectioned %s notes", humanize.Comma(n))
	}
}
