package sectioning

import (
	"github.com/sevphysionet/sectioner/internal"
	"github.com/sevphysionet/sectioner/pkg/models"
)

// Merge joins consecutive sub-sections of the same group into section blocks.
// A block keeps the title, index and section id of its first sub-section and
// its text is re-sliced from document, so the trigger text of any inner
// sub-section is included.
func Merge(subSections []models.SubSection, document string) []models.SectionBlock {
	if len(subSections) == 0 {
		return nil
	}

	var blocks []models.SectionBlock
	current := models.SectionBlock(subSections[0])

	for _, s := range subSections[1:] {
		if s.Group == current.Group {
			current.End = s.End
			continue
		}
		blocks = append(blocks, flush(current, document))
		current = models.SectionBlock(s)
	}

	return append(blocks, flush(current, document))
}

func flush(block models.SectionBlock, document string) models.SectionBlock {
	if block.End < block.Start {
		block.End = block.Start
	}
	block.Text = internal.SliceText(document, block.Start, block.End)
	return block
}
