package services

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"jira-triage-snapshot/internal/common"
	"jira-triage-snapshot/internal/models"
)

func newTestReporter(t *testing.T) *Reporter {
	t.Helper()
	return NewReporter(&common.ReportsConfig{
		OutputDir: filepath.Join(t.TempDir(), "reports"),
		Clean:     true,
	})
}

func sampleRecords() []models.Record {
	return []models.Record{
		{
			Key: "OPS-1", Summary: "nightly backup failed", Assignee: "Alice",
			Reporter: "Bob", P: "P2", Status: "Open", Resolution: "Unresolved",
			Created: "2025-03-01", Updated: "2025-03-02",
			Labels: "oneview_triagex_failed",
		},
		{
			Key: "OPS-2", Summary: "restore verified", Assignee: "Carol",
			Reporter: "Dan", P: "P3", Status: "Done", Resolution: "Done",
			Created: "2025-03-01", Updated: "2025-03-03",
			Labels: "oneview_triagex_success",
		},
	}
}

func sampleStatuses() []models.StatusRecord {
	return []models.StatusRecord{
		{JiraID: "OPS-1", Status: models.StatusFailed, Link: "https://j/browse/OPS-1", Date: "2025-03-01"},
		{JiraID: "OPS-2", Status: models.StatusSuccess, Link: "https://j/browse/OPS-2", Date: "2025-03-01"},
	}
}

func TestPrepareCleansPreviousRun(t *testing.T) {
	r := newTestReporter(t)
	require.NoError(t, r.Prepare())

	stale := filepath.Join(r.Dir(), "stale.csv")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	require.NoError(t, r.Prepare())

	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteTableCSV(t *testing.T) {
	r := newTestReporter(t)
	require.NoError(t, r.Prepare())
	require.NoError(t, r.WriteTableCSV(sampleRecords()))

	file, err := os.Open(filepath.Join(r.Dir(), TableFileName))
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, models.Columns, rows[0])
	assert.Equal(t, "OPS-1", rows[1][0])
	assert.Equal(t, "nightly backup failed", rows[1][1])
	assert.Equal(t, "oneview_triagex_success", rows[2][10])
}

func TestWriteStatusCSV(t *testing.T) {
	r := newTestReporter(t)
	require.NoError(t, r.Prepare())
	require.NoError(t, r.WriteStatusCSV(sampleStatuses()))

	file, err := os.Open(filepath.Join(r.Dir(), StatusCSVFileName))
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"JIRA ID", "Status", "Date", "Link"}, rows[0])
	assert.Equal(t, []string{"OPS-1", "Failed", "2025-03-01", "https://j/browse/OPS-1"}, rows[1])
}

func TestWriteHTMLLinksEveryTicket(t *testing.T) {
	r := newTestReporter(t)
	require.NoError(t, r.Prepare())
	require.NoError(t, r.WriteHTML(sampleStatuses()))

	data, err := os.ReadFile(filepath.Join(r.Dir(), StatusHTMLFileName))
	require.NoError(t, err)

	doc, err := html.Parse(bytes.NewReader(data))
	require.NoError(t, err)

	links := common.FindLinks(doc)
	// Summary lists and table rows both link each ticket.
	assert.Contains(t, links, "https://j/browse/OPS-1")
	assert.Contains(t, links, "https://j/browse/OPS-2")

	text := common.ExtractText(doc)
	assert.Contains(t, text, "Total tickets: 2")
	assert.Contains(t, text, "OPS-1")
}

func TestWriteHTMLEscapesRecordText(t *testing.T) {
	r := newTestReporter(t)
	require.NoError(t, r.Prepare())

	statuses := []models.StatusRecord{
		{JiraID: "<script>OPS-3</script>", Status: models.StatusFailed, Link: "https://j/browse/OPS-3"},
	}
	require.NoError(t, r.WriteHTML(statuses))

	data, err := os.ReadFile(filepath.Join(r.Dir(), StatusHTMLFileName))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "<script>OPS-3")
}

func TestRenderTable(t *testing.T) {
	r := newTestReporter(t)

	var buf bytes.Buffer
	r.RenderTable(&buf, sampleRecords())

	out := buf.String()
	assert.Contains(t, out, strings.Repeat("=", 100))
	assert.Contains(t, out, "OPS-1")
	assert.Contains(t, out, "Total records: 2")
}

func TestRenderStatusReport(t *testing.T) {
	r := newTestReporter(t)

	var buf bytes.Buffer
	r.RenderStatusReport(&buf, sampleStatuses())

	out := buf.String()
	assert.Contains(t, out, "Total tickets: 2")
	assert.Contains(t, out, "Success:       1")
	assert.Contains(t, out, "Failed:        1")
	assert.Contains(t, out, "https://j/browse/OPS-2")
}
