package services

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"jira-triage-snapshot/internal/common"
	"jira-triage-snapshot/internal/models"
)

// Report file names, stable so downstream consumers can link to them.
const (
	TableFileName      = "jira_table.csv"
	StatusCSVFileName  = "jira_status_report.csv"
	StatusHTMLFileName = "jira_status_report.html"
)

// Reporter writes one run's output files into the report directory and
// renders the console views.
type Reporter struct {
	dir   string
	clean bool
}

func NewReporter(config *common.ReportsConfig) *Reporter {
	return &Reporter{
		dir:   config.OutputDir,
		clean: config.Clean,
	}
}

// Dir returns the report output directory.
func (r *Reporter) Dir() string {
	return r.dir
}

// Prepare resets the report directory for a fresh run. With clean set
// the previous run's files are removed first.
func (r *Reporter) Prepare() error {
	if r.clean {
		if err := os.RemoveAll(r.dir); err != nil {
			return common.WrapError(err, common.ErrorTypeReport, "clean_dir", "failed to clean report directory")
		}
	}
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return common.WrapError(err, common.ErrorTypeReport, "create_dir", "failed to create report directory")
	}
	return nil
}

// WriteTableCSV writes the full reconstructed table, one row per record,
// under the fixed column header.
func (r *Reporter) WriteTableCSV(records []models.Record) error {
	file, err := os.Create(filepath.Join(r.dir, TableFileName))
	if err != nil {
		return common.WrapError(err, common.ErrorTypeReport, "create_file", "failed to create table CSV")
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(models.Columns); err != nil {
		return common.WrapError(err, common.ErrorTypeReport, "write_csv", "failed to write table header")
	}
	for _, rec := range records {
		if err := w.Write(rec.Values()); err != nil {
			return common.WrapError(err, common.ErrorTypeReport, "write_csv", "failed to write table row")
		}
	}

	w.Flush()
	return w.Error()
}

// WriteStatusCSV writes the triage status rows.
func (r *Reporter) WriteStatusCSV(statuses []models.StatusRecord) error {
	file, err := os.Create(filepath.Join(r.dir, StatusCSVFileName))
	if err != nil {
		return common.WrapError(err, common.ErrorTypeReport, "create_file", "failed to create status CSV")
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"JIRA ID", "Status", "Date", "Link"}); err != nil {
		return common.WrapError(err, common.ErrorTypeReport, "write_csv", "failed to write status header")
	}
	for _, st := range statuses {
		if err := w.Write([]string{st.JiraID, string(st.Status), st.Date, st.Link}); err != nil {
			return common.WrapError(err, common.ErrorTypeReport, "write_csv", "failed to write status row")
		}
	}

	w.Flush()
	return w.Error()
}

var statusHTMLTemplate = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Jira Triage Status Report</title>
<style>
body { font-family: Arial, sans-serif; margin: 24px; color: #172b4d; }
h1 { font-size: 22px; }
.summary { background: #f4f5f7; border-radius: 4px; padding: 12px 16px; margin-bottom: 20px; }
.summary p { margin: 4px 0; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #dfe1e6; padding: 6px 10px; text-align: left; }
th { background: #f4f5f7; }
.badge { display: inline-block; padding: 2px 8px; border-radius: 3px; color: #fff; font-size: 12px; }
.badge.success { background: #36b37e; }
.badge.failed { background: #de350b; }
a { color: #0052cc; text-decoration: none; }
</style>
</head>
<body>
<h1>Jira Triage Status Report</h1>
<div class="summary">
<p><strong>Total tickets:</strong> {{.Total}}</p>
<p><strong>Success:</strong> {{.SuccessCount}}{{if .SuccessLinks}} &mdash; {{range $i, $l := .SuccessLinks}}{{if $i}}, {{end}}<a href="{{$l.Link}}" target="_blank">{{$l.JiraID}}</a>{{end}}{{end}}</p>
<p><strong>Failed:</strong> {{.FailedCount}}{{if .FailedLinks}} &mdash; {{range $i, $l := .FailedLinks}}{{if $i}}, {{end}}<a href="{{$l.Link}}" target="_blank">{{$l.JiraID}}</a>{{end}}{{end}}</p>
</div>
<table>
<tr><th>JIRA ID</th><th>Status</th><th>Date</th></tr>
{{range .Rows}}<tr>
<td><a href="{{.Link}}" target="_blank">{{.JiraID}}</a></td>
<td><span class="badge {{.Class}}">{{.Status}}</span></td>
<td>{{.Date}}</td>
</tr>
{{end}}</table>
</body>
</html>
`))

type statusPage struct {
	Total        int
	SuccessCount int
	FailedCount  int
	SuccessLinks []models.StatusRecord
	FailedLinks  []models.StatusRecord
	Rows         []statusRow
}

type statusRow struct {
	JiraID string
	Status models.Status
	Class  string
	Date   string
	Link   string
}

func buildStatusPage(statuses []models.StatusRecord) statusPage {
	page := statusPage{Total: len(statuses)}

	for _, st := range statuses {
		row := statusRow{
			JiraID: st.JiraID,
			Status: st.Status,
			Class:  strings.ToLower(string(st.Status)),
			Date:   st.Date,
			Link:   st.Link,
		}
		page.Rows = append(page.Rows, row)

		switch st.Status {
		case models.StatusSuccess:
			page.SuccessCount++
			page.SuccessLinks = append(page.SuccessLinks, st)
		case models.StatusFailed:
			page.FailedCount++
			page.FailedLinks = append(page.FailedLinks, st)
		}
	}

	return page
}

// WriteHTML writes the status report as a standalone HTML page with a
// summary block and a badge table. Every ticket links to its browse URL.
func (r *Reporter) WriteHTML(statuses []models.StatusRecord) error {
	file, err := os.Create(filepath.Join(r.dir, StatusHTMLFileName))
	if err != nil {
		return common.WrapError(err, common.ErrorTypeReport, "create_file", "failed to create HTML report")
	}
	defer file.Close()

	if err := statusHTMLTemplate.Execute(file, buildStatusPage(statuses)); err != nil {
		return common.WrapError(err, common.ErrorTypeReport, "render_html", "failed to render HTML report")
	}
	return nil
}

// RenderTable writes the full table to the console.
func (r *Reporter) RenderTable(w io.Writer, records []models.Record) {
	rule := strings.Repeat("=", 100)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "RECONSTRUCTED JIRA TABLE")
	fmt.Fprintln(w, rule)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(models.Columns, "\t"))
	for _, rec := range records {
		fmt.Fprintln(tw, strings.Join(rec.Values(), "\t"))
	}
	tw.Flush()

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total records: %d\n", len(records))
}

// RenderStatusReport writes the triage outcome summary to the console.
func (r *Reporter) RenderStatusReport(w io.Writer, statuses []models.StatusRecord) {
	page := buildStatusPage(statuses)

	rule := strings.Repeat("=", 100)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "TRIAGE STATUS REPORT")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total tickets: %d\n", page.Total)
	fmt.Fprintf(w, "Success:       %d\n", page.SuccessCount)
	fmt.Fprintf(w, "Failed:        %d\n", page.FailedCount)
	fmt.Fprintln(w, rule)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "JIRA ID\tStatus\tDate\tLink")
	for _, st := range statuses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", st.JiraID, st.Status, st.Date, st.Link)
	}
	tw.Flush()
}
