package batch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevphysionet/sectioner/pkg/lexicon"
	"github.com/sevphysionet/sectioner/pkg/models"
	"github.com/sevphysionet/sectioner/pkg/sectioning"
)

func testSegmenter(t *testing.T) *sectioning.Segmenter {
	t.Helper()
	lex, err := lexicon.New([]lexicon.Entry{
		{Group: "cc", Phrase: "Chief Complaint:"},
		{Group: "hpi", Phrase: "HPI:"},
		{Group: "hpi", Phrase: "History of Present Illness:"},
		{Group: "meds", Phrase: "Medications:"},
		{Group: "plan", Phrase: "Plan:"},
	}, lexicon.DuplicateWarn)
	require.NoError(t, err)
	return sectioning.NewSegmenter(lex)
}

// panicky fails on the listed document ids and delegates otherwise.
type panicky struct {
	next Sectioner
	bad  map[string]bool
}

func (p *panicky) Section(doc models.Document) *sectioning.Result {
	if p.bad[doc.ID] {
		var m map[string]int
		m["boom"]++
	}
	return p.next.Section(doc)
}

func testDocuments(n int) []models.Document {
	docs := make([]models.Document, n)
	for i := range docs {
		text := fmt.Sprintf("Note %d\nChief Complaint: pain %d\n  HPI: day %d\nPlan: rest", i, i, i)
		if i%5 == 4 {
			text = fmt.Sprintf("free text only %d", i)
		}
		docs[i] = models.Document{ID: fmt.Sprint(1000 + i), Text: text}
	}
	return docs
}

func TestDriverRun(t *testing.T) {
	ctx := context.Background()

	t.Run("MissedDocuments", func(t *testing.T) {
		docs := []models.Document{
			{ID: "1", Text: "Chief Complaint: cough\nPlan: rest"},
			{ID: "2", Text: "no headings in this note"},
			{ID: "3", Text: "HPI: fever"},
		}
		collector := NewCollector()
		driver := NewDriver(testSegmenter(t), Settings{Workers: 2})

		require.NoError(t, driver.Run(ctx, docs, collector))

		assert.Equal(t, []string{"2"}, collector.Missed())
		blocks := collector.Blocks()
		require.Len(t, blocks, 3)
		assert.Equal(t, []string{"1", "1", "3"}, []string{blocks[0].DocumentID, blocks[1].DocumentID, blocks[2].DocumentID})
		assert.Equal(t, " cough\n", blocks[0].Text)
		assert.Equal(t, 2, collector.SectionedDocuments())
		assert.Equal(t, int64(3), driver.Processed())
	})

	t.Run("OrderIndependentOfWorkers", func(t *testing.T) {
		docs := testDocuments(60)

		serial := NewCollector()
		require.NoError(t, NewDriver(testSegmenter(t), Settings{Workers: 1}).Run(ctx, docs, serial))

		parallel := NewCollector()
		require.NoError(t, NewDriver(testSegmenter(t), Settings{Workers: 8}).Run(ctx, docs, parallel))

		assert.Equal(t, serial.Blocks(), parallel.Blocks())
		assert.Equal(t, serial.Missed(), parallel.Missed())
		assert.Len(t, serial.Missed(), 12)
	})

	t.Run("NormalizesBeforeSectioning", func(t *testing.T) {
		collector := NewCollector()
		docs := []models.Document{{ID: "9", Text: "   HPI: indented\n\tPlan: tabbed"}}
		require.NoError(t, NewDriver(testSegmenter(t), Settings{}).Run(ctx, docs, collector))

		blocks := collector.Blocks()
		require.Len(t, blocks, 2)
		assert.Equal(t, models.Span{Start: 4, End: 14}, blocks[0].Span)
		assert.Equal(t, " indented\n", blocks[0].Text)
	})

	t.Run("FailureIsolated", func(t *testing.T) {
		docs := testDocuments(10)
		sectioner := &panicky{next: testSegmenter(t), bad: map[string]bool{"1002": true}}
		collector := NewCollector()

		err := NewDriver(sectioner, Settings{Workers: 3}).Run(ctx, docs, collector)
		require.NoError(t, err)

		assert.Equal(t, []string{"1002", "1004", "1009"}, collector.Missed())
		assert.Equal(t, 7, collector.SectionedDocuments())
	})

	t.Run("FailFast", func(t *testing.T) {
		docs := testDocuments(10)
		sectioner := &panicky{next: testSegmenter(t), bad: map[string]bool{"1002": true}}
		collector := NewCollector()

		err := NewDriver(sectioner, Settings{Workers: 1, FailFast: true}).Run(ctx, docs, collector)
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrSegmentation))

		var segErr *models.SegmentationError
		require.True(t, errors.As(err, &segErr))
		assert.Equal(t, "1002", segErr.DocumentID)

		assert.Equal(t, []string{"1002"}, collector.Missed())
		assert.Equal(t, 2, collector.SectionedDocuments())
	})

	t.Run("Cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		collector := NewCollector()
		err := NewDriver(testSegmenter(t), Settings{Workers: 2}).Run(cctx, testDocuments(5), collector)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, collector.Blocks())
		assert.Empty(t, collector.Missed())
	})

	t.Run("Empty", func(t *testing.T) {
		collector := NewCollector()
		require.NoError(t, NewDriver(testSegmenter(t), Settings{}).Run(ctx, nil, collector))
		assert.Empty(t, collector.Blocks())
	})
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Miss("b")
	c.Miss("a")
	c.Miss("b")
	c.Add(
		models.SectionBlock{DocumentID: "c", Index: 0},
		models.SectionBlock{DocumentID: "c", Index: 1},
	)
	c.Add(models.SectionBlock{DocumentID: "d"})

	assert.Equal(t, []string{"b", "a"}, c.Missed())
	assert.Len(t, c.Blocks(), 3)
	assert.Equal(t, 2, c.SectionedDocuments())

	blocks := c.Blocks()
	blocks[0].DocumentID = "mutated"
	assert.Equal(t, "c", c.Blocks()[0].DocumentID)
}
