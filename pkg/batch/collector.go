package batch

import (
	"sync"

	"github.com/sevphysionet/sectioner/pkg/models"
)

// Collector accumulates the section blocks and missed document ids of a run.
// It is safe for concurrent use.
type Collector struct {
	mu        sync.Mutex
	blocks    []models.SectionBlock
	missed    []string
	missedSet map[string]struct{}
	sectioned map[string]struct{}
}

func NewCollector() *Collector {
	return &Collector{
		missedSet: make(map[string]struct{}),
		sectioned: make(map[string]struct{}),
	}
}

// Add appends the blocks of one sectioned document.
func (c *Collector) Add(blocks ...models.SectionBlock) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.blocks = append(c.blocks, blocks...)
	for _, b := range blocks {
		c.sectioned[b.DocumentID] = struct{}{}
	}
}

// Miss records a document that produced no sections or failed. Repeated ids
// are recorded once.
func (c *Collector) Miss(documentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.missedSet[documentID]; ok {
		return
	}
	c.missedSet[documentID] = struct{}{}
	c.missed = append(c.missed, documentID)
}

// Blocks returns a copy of the accumulated blocks in arrival order.
func (c *Collector) Blocks() []models.SectionBlock {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.SectionBlock, len(c.blocks))
	copy(out, c.blocks)
	return out
}

// Missed returns the missed document ids in the order they were recorded.
func (c *Collector) Missed() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, len(c.missed))
	copy(out, c.missed)
	return out
}

// SectionedDocuments is the number of distinct documents with at least one block.
func (c *Collector) SectionedDocuments() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sectioned)
}
