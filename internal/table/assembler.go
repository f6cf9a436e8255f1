package table

import (
	"regexp"
	"strings"

	"jira-triage-snapshot/internal/models"
)

// keyPattern matches a Jira ticket key: uppercase project code, hyphen,
// issue number. OCR noise around the key ("© = DBAASOPS-465465") is
// expected, so the pattern is searched for, not anchored.
var keyPattern = regexp.MustCompile(`[A-Z]+-\d+`)

// Assembler converts per-row cell sequences into fixed-schema records.
// A row whose first cell carries no ticket key is a continuation: wrapped
// label text belonging to the record above it.
type Assembler struct {
	rows *RowGrouper
	cols *ColumnGrouper
}

// NewAssembler creates an assembler with the given pixel tolerances.
// Non-positive values fall back to the package defaults.
func NewAssembler(rowTolerance, columnGapThreshold int) *Assembler {
	return &Assembler{
		rows: NewRowGrouper(rowTolerance),
		cols: NewColumnGrouper(columnGapThreshold),
	}
}

// Result carries the assembled records plus the count of orphan rows:
// continuation rows with no record to continue. The screenshot's header
// row is consumed as an orphan.
type Result struct {
	Records []models.Record
	Orphans int
}

// Assemble runs the full reconstruction over one image's token set.
// Records come out in top-to-bottom image order and every record's Key
// matches the ticket-key pattern. Assembly never fails; distorted rows
// are resolved by the merge/pad and continuation policies.
func (a *Assembler) Assemble(tokens []models.Token) Result {
	var result Result
	var current *models.Record

	for _, row := range a.rows.Group(tokens) {
		cells := a.cols.Cells(row)
		if len(cells) == 0 {
			continue
		}

		if key := keyPattern.FindString(cells[0].Text); key != "" {
			if current != nil {
				result.Records = append(result.Records, *current)
			}
			current = newRecord(key, cells)
			continue
		}

		if current == nil {
			result.Orphans++
			continue
		}
		current.AppendLabels(joinCellText(cells))
	}

	if current != nil {
		result.Records = append(result.Records, *current)
	}

	return result
}

// newRecord maps raw cells onto the schema by position. The extracted key
// replaces the first cell's raw text; cells beyond the schema width merge
// into the Labels column; missing columns stay empty.
func newRecord(key string, cells []models.Cell) *models.Record {
	rec := &models.Record{Key: key}

	limit := len(cells)
	if limit > len(models.Columns) {
		limit = len(models.Columns)
	}
	for i := 1; i < limit; i++ {
		rec.SetColumn(i, cells[i].Text)
	}
	for i := len(models.Columns); i < len(cells); i++ {
		rec.AppendLabels(cells[i].Text)
	}

	return rec
}

func joinCellText(cells []models.Cell) string {
	parts := make([]string, 0, len(cells))
	for _, cell := range cells {
		if cell.Text != "" {
			parts = append(parts, cell.Text)
		}
	}
	return strings.Join(parts, " ")
}
