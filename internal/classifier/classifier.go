// Package classifier assigns triage outcomes to issue records based on
// the labels the triage automation stamps on each ticket.
package classifier

import (
	"regexp"
	"strings"

	"jira-triage-snapshot/internal/models"
)

// Marker patterns. OCR frequently reads an underscore in a label as a
// space, and either separator can degrade independently, so each one
// matches underscore or space on its own.
var (
	failedPattern  = regexp.MustCompile(`(?i)oneview[_ ]triagex[_ ]failed`)
	successPattern = regexp.MustCompile(`(?i)oneview[_ ]triagex[_ ]success`)
)

// Classifier maps a record's Labels text to a triage status and builds
// the per-ticket status rows for reporting.
type Classifier struct {
	baseURL    string
	precedence models.Status
}

// New creates a classifier. conflictPolicy decides the outcome when a
// record carries both markers: "success" prefers Success, anything else
// prefers Failed.
func New(baseURL, conflictPolicy string) *Classifier {
	precedence := models.StatusFailed
	if strings.EqualFold(conflictPolicy, "success") {
		precedence = models.StatusSuccess
	}
	return &Classifier{baseURL: baseURL, precedence: precedence}
}

// Classify inspects the record's Labels text, case-insensitively, and
// returns Failed, Success or None. When both markers appear the
// configured precedence wins.
func (c *Classifier) Classify(rec models.Record) models.Status {
	failed := failedPattern.MatchString(rec.Labels)
	success := successPattern.MatchString(rec.Labels)

	switch {
	case failed && success:
		return c.precedence
	case failed:
		return models.StatusFailed
	case success:
		return models.StatusSuccess
	default:
		return models.StatusNone
	}
}

// Report classifies every record and returns status rows for the ones
// carrying a triage marker, in input order. Unmarked records are left
// out of the status report entirely.
func (c *Classifier) Report(records []models.Record) []models.StatusRecord {
	var statuses []models.StatusRecord
	for _, rec := range records {
		status := c.Classify(rec)
		if status == models.StatusNone {
			continue
		}
		statuses = append(statuses, models.StatusRecord{
			JiraID: rec.Key,
			Status: status,
			Link:   c.Link(rec.Key),
			Date:   rec.Created,
		})
	}
	return statuses
}

// Link builds the browse URL for a ticket key.
func (c *Classifier) Link(key string) string {
	return strings.TrimRight(c.baseURL, "/") + "/browse/" + key
}
