package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jira-triage-snapshot/internal/models"
)

func row(tokens ...models.Token) models.RowCluster {
	r := models.RowCluster{Tokens: tokens}
	if len(tokens) > 0 {
		r.Top = tokens[0].Box.Top
	}
	return r
}

func wide(text string, left, width int) models.Token {
	return models.Token{
		Text: text,
		Box:  models.Box{Left: left, Top: 100, Width: width, Height: 12},
	}
}

func TestColumnGrouperEmptyRow(t *testing.T) {
	g := NewColumnGrouper(40)
	assert.Nil(t, g.Cells(models.RowCluster{}))
}

func TestColumnGrouperMergesWithinGap(t *testing.T) {
	g := NewColumnGrouper(40)

	// "In Progress": 10..90, then 100..160. Gap is 10, well within 40.
	cells := g.Cells(row(wide("In", 10, 80), wide("Progress", 100, 60)))

	require.Len(t, cells, 1)
	assert.Equal(t, "In Progress", cells[0].Text)
	assert.Equal(t, 10, cells[0].Left)
}

func TestColumnGrouperSplitsOnGap(t *testing.T) {
	g := NewColumnGrouper(40)

	// Second token starts 41px after the first ends.
	cells := g.Cells(row(wide("Key", 0, 50), wide("Summary", 91, 60)))

	require.Len(t, cells, 2)
	assert.Equal(t, "Key", cells[0].Text)
	assert.Equal(t, "Summary", cells[1].Text)
	assert.Equal(t, 91, cells[1].Left)
}

func TestColumnGrouperGapMeasuredFromRunningRightEdge(t *testing.T) {
	g := NewColumnGrouper(40)

	// Three tokens, each 20px apart: one cell despite the spread.
	cells := g.Cells(row(
		wide("fix", 0, 30),
		wide("login", 50, 40),
		wide("crash", 110, 40),
	))

	require.Len(t, cells, 1)
	assert.Equal(t, "fix login crash", cells[0].Text)
}

func TestColumnGrouperUnsortedTokens(t *testing.T) {
	g := NewColumnGrouper(40)

	cells := g.Cells(row(wide("right", 500, 40), wide("left", 0, 40)))

	require.Len(t, cells, 2)
	assert.Equal(t, "left", cells[0].Text)
	assert.Equal(t, "right", cells[1].Text)
}

func TestColumnGrouperOverlappingBoxesMerge(t *testing.T) {
	g := NewColumnGrouper(40)

	// Negative gap from overlapping OCR boxes still merges.
	cells := g.Cells(row(wide("DBAAS", 10, 60), wide("OPS-1", 50, 60)))

	require.Len(t, cells, 1)
	assert.Equal(t, "DBAAS OPS-1", cells[0].Text)
}
