package models

import "time"

// Status is the triage outcome derived from a record's Labels field.
type Status string

const (
	// StatusSuccess means the success marker was found.
	StatusSuccess Status = "Success"
	// StatusFailed means the failure marker was found.
	StatusFailed Status = "Failed"
	// StatusNone means neither marker was found; the record is kept in the
	// full table but produces no StatusRecord.
	StatusNone Status = "None"
)

// StatusRecord is a record's derived classification plus its browse link.
// Only Success and Failed ever appear here.
type StatusRecord struct {
	JiraID string `json:"jira_id"`
	Status Status `json:"status"`
	Link   string `json:"link"`
	Date   string `json:"date,omitempty"`
}

// Run sources.
const (
	SourceImage = "image"
	SourceAPI   = "api"
)

// RunSummary describes one snapshot run.
type RunSummary struct {
	RunID     string    `json:"run_id"`
	Source    string    `json:"source"`
	Started   time.Time `json:"started"`
	Completed time.Time `json:"completed"`
	Records   int       `json:"records"`
	Success   int       `json:"success"`
	Failed    int       `json:"failed"`
	Orphans   int       `json:"orphans"`
}
