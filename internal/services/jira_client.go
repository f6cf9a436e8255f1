package services

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"jira-triage-snapshot/internal/common"
	"jira-triage-snapshot/internal/interfaces"
	"jira-triage-snapshot/internal/models"
)

// issueFields lists exactly the Jira fields the record schema needs.
const issueFields = "key,summary,assignee,reporter,priority,status,resolution,created,updated,duedate,labels"

type searchResponse struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []issue `json:"issues"`
}

type issue struct {
	Key    string                 `json:"key"`
	Fields map[string]interface{} `json:"fields"`
}

type jiraClient struct {
	client     *resty.Client
	jql        string
	maxResults int
}

// NewJiraClient creates a REST client for the configured Jira instance.
// A username switches authentication from bearer token to basic auth,
// which Jira Cloud expects for API tokens.
func NewJiraClient(config *common.JiraConfig) interfaces.JiraClient {
	client := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(time.Duration(config.TimeoutSeconds)*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if config.Username != "" {
		client.SetBasicAuth(config.Username, config.APIToken)
	} else {
		client.SetAuthToken(config.APIToken)
	}

	return &jiraClient{
		client:     client,
		jql:        config.JQL,
		maxResults: config.MaxResults,
	}
}

// SearchIssues pages through the search results for the given JQL and
// maps each issue onto the fixed record schema. maxResults of zero or
// less falls back to the configured default.
func (jc *jiraClient) SearchIssues(jql string, maxResults int) ([]models.Record, error) {
	if jql == "" {
		jql = jc.jql
	}
	if maxResults <= 0 {
		maxResults = jc.maxResults
	}

	var records []models.Record
	startAt := 0

	for len(records) < maxResults {
		pageSize := maxResults - len(records)

		var response searchResponse
		resp, err := jc.client.R().
			SetQueryParam("jql", jql).
			SetQueryParam("startAt", strconv.Itoa(startAt)).
			SetQueryParam("maxResults", strconv.Itoa(pageSize)).
			SetQueryParam("fields", issueFields).
			SetResult(&response).
			Get("/rest/api/2/search")

		if err != nil {
			return nil, common.WrapError(err, common.ErrorTypeJira, "search_request", "failed to search issues")
		}

		if resp.StatusCode() != http.StatusOK {
			return nil, common.NewJiraError("search_status", "Jira search returned non-OK status").
				WithContext("status", resp.StatusCode()).
				WithContext("body", resp.String())
		}

		for _, iss := range response.Issues {
			records = append(records, issueToRecord(iss))
		}

		startAt += len(response.Issues)
		if len(response.Issues) == 0 || startAt >= response.Total {
			break
		}
	}

	return records, nil
}

// issueToRecord flattens one Jira issue into the report schema, applying
// the same fallbacks the console and CSV output expect.
func issueToRecord(iss issue) models.Record {
	return models.Record{
		Key:        iss.Key,
		Summary:    getString(iss.Fields, "summary"),
		Assignee:   personName(iss.Fields["assignee"], "Unassigned"),
		Reporter:   personName(iss.Fields["reporter"], "Unknown"),
		P:          namedField(iss.Fields["priority"], ""),
		Status:     namedField(iss.Fields["status"], ""),
		Resolution: namedField(iss.Fields["resolution"], "Unresolved"),
		Created:    datePart(getString(iss.Fields, "created")),
		Updated:    datePart(getString(iss.Fields, "updated")),
		Due:        getString(iss.Fields, "duedate"),
		Labels:     joinLabels(iss.Fields["labels"]),
	}
}

func getString(fields map[string]interface{}, key string) string {
	if value, ok := fields[key].(string); ok {
		return value
	}
	return ""
}

// personName extracts displayName from a user field, falling back when
// the field is null or the name is absent.
func personName(field interface{}, fallback string) string {
	if user, ok := field.(map[string]interface{}); ok {
		if name, ok := user["displayName"].(string); ok && name != "" {
			return name
		}
	}
	return fallback
}

// namedField extracts the name from fields like priority, status and
// resolution.
func namedField(field interface{}, fallback string) string {
	if obj, ok := field.(map[string]interface{}); ok {
		if name, ok := obj["name"].(string); ok && name != "" {
			return name
		}
	}
	return fallback
}

// datePart truncates a Jira timestamp to its date portion.
func datePart(timestamp string) string {
	if idx := strings.IndexByte(timestamp, 'T'); idx >= 0 {
		return timestamp[:idx]
	}
	return timestamp
}

func joinLabels(field interface{}) string {
	values, ok := field.([]interface{})
	if !ok {
		return ""
	}
	labels := make([]string, 0, len(values))
	for _, v := range values {
		if label, ok := v.(string); ok && label != "" {
			labels = append(labels, label)
		}
	}
	return strings.Join(labels, " ")
}
