// Package table rebuilds the fixed-schema issue table from OCR word
// tokens: rows by vertical clustering, cells by horizontal gaps, records
// by a continuation-aware scan over the clustered rows.
package table

import (
	"sort"

	"jira-triage-snapshot/internal/models"
)

// DefaultRowTolerance is the vertical distance in pixels within which a
// token still belongs to the current row.
const DefaultRowTolerance = 15

// RowGrouper clusters tokens into visual table rows by vertical position.
type RowGrouper struct {
	tolerance int
}

// NewRowGrouper creates a row grouper. A tolerance of zero or less falls
// back to DefaultRowTolerance.
func NewRowGrouper(tolerance int) *RowGrouper {
	if tolerance <= 0 {
		tolerance = DefaultRowTolerance
	}
	return &RowGrouper{tolerance: tolerance}
}

// Group sorts tokens by top coordinate and walks them, accumulating a row
// while a token's top stays within tolerance of the row's first token.
// Clusters come out in non-decreasing vertical order and every input
// token lands in exactly one cluster. Column separation is not this
// stage's job: tokens at the same height join one row regardless of
// horizontal spread.
func (g *RowGrouper) Group(tokens []models.Token) []models.RowCluster {
	if len(tokens) == 0 {
		return nil
	}

	sorted := make([]models.Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Box.Top < sorted[j].Box.Top
	})

	var clusters []models.RowCluster
	current := models.RowCluster{Top: sorted[0].Box.Top}

	for _, tok := range sorted {
		if tok.Box.Top-current.Top > g.tolerance {
			clusters = append(clusters, current)
			current = models.RowCluster{Top: tok.Box.Top}
		}
		current.Tokens = append(current.Tokens, tok)
	}

	return append(clusters, current)
}
