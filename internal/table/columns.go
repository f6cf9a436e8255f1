package table

import (
	"sort"
	"strings"

	"jira-triage-snapshot/internal/models"
)

// DefaultColumnGapThreshold is the horizontal gap in pixels that separates
// two table columns.
const DefaultColumnGapThreshold = 40

// ColumnGrouper splits one row cluster into cells on horizontal gaps.
type ColumnGrouper struct {
	gapThreshold int
}

// NewColumnGrouper creates a column grouper. A threshold of zero or less
// falls back to DefaultColumnGapThreshold.
func NewColumnGrouper(gapThreshold int) *ColumnGrouper {
	if gapThreshold <= 0 {
		gapThreshold = DefaultColumnGapThreshold
	}
	return &ColumnGrouper{gapThreshold: gapThreshold}
}

// Cells sorts the row's tokens left to right and merges adjacent tokens
// into one cell while the gap between a token's right edge and the next
// token's left edge stays within the threshold. Merged token text is
// joined with single spaces. The result is a raw cell sequence, not yet
// aligned to the fixed schema. Overlapping boxes from OCR artifacts are
// not de-duplicated; a negative gap simply merges.
func (g *ColumnGrouper) Cells(row models.RowCluster) []models.Cell {
	if len(row.Tokens) == 0 {
		return nil
	}

	sorted := make([]models.Token, len(row.Tokens))
	copy(sorted, row.Tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Box.Left < sorted[j].Box.Left
	})

	var cells []models.Cell
	parts := []string{sorted[0].Text}
	left := sorted[0].Box.Left
	right := sorted[0].Box.Right()

	for _, tok := range sorted[1:] {
		if tok.Box.Left-right > g.gapThreshold {
			cells = append(cells, models.Cell{Text: strings.Join(parts, " "), Left: left})
			parts = parts[:0]
			left = tok.Box.Left
		}
		parts = append(parts, tok.Text)
		right = tok.Box.Right()
	}

	return append(cells, models.Cell{Text: strings.Join(parts, " "), Left: left})
}
