package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jira-triage-snapshot/internal/common"
)

func TestIssueToRecordMapsFields(t *testing.T) {
	iss := issue{
		Key: "DBAASOPS-465465",
		Fields: map[string]interface{}{
			"summary":    "nightly backup failed",
			"assignee":   map[string]interface{}{"displayName": "Alice Smith"},
			"reporter":   map[string]interface{}{"displayName": "Bob Jones"},
			"priority":   map[string]interface{}{"name": "P2"},
			"status":     map[string]interface{}{"name": "In Progress"},
			"resolution": map[string]interface{}{"name": "Fixed"},
			"created":    "2025-03-01T08:30:00.000+0000",
			"updated":    "2025-03-02T10:00:00.000+0000",
			"duedate":    "2025-03-10",
			"labels":     []interface{}{"oneview_triagex_failed", "db_cluster"},
		},
	}

	rec := issueToRecord(iss)

	assert.Equal(t, "DBAASOPS-465465", rec.Key)
	assert.Equal(t, "nightly backup failed", rec.Summary)
	assert.Equal(t, "Alice Smith", rec.Assignee)
	assert.Equal(t, "Bob Jones", rec.Reporter)
	assert.Equal(t, "P2", rec.P)
	assert.Equal(t, "In Progress", rec.Status)
	assert.Equal(t, "Fixed", rec.Resolution)
	assert.Equal(t, "2025-03-01", rec.Created)
	assert.Equal(t, "2025-03-02", rec.Updated)
	assert.Equal(t, "2025-03-10", rec.Due)
	assert.Equal(t, "oneview_triagex_failed db_cluster", rec.Labels)
}

func TestIssueToRecordFallbacks(t *testing.T) {
	rec := issueToRecord(issue{Key: "OPS-1", Fields: map[string]interface{}{}})

	assert.Equal(t, "Unassigned", rec.Assignee)
	assert.Equal(t, "Unknown", rec.Reporter)
	assert.Equal(t, "Unresolved", rec.Resolution)
	assert.Empty(t, rec.P)
	assert.Empty(t, rec.Labels)
}

func TestDatePart(t *testing.T) {
	assert.Equal(t, "2025-03-01", datePart("2025-03-01T08:30:00.000+0000"))
	assert.Equal(t, "2025-03-10", datePart("2025-03-10"))
	assert.Empty(t, datePart(""))
}

func TestSearchIssuesPagination(t *testing.T) {
	pages := map[int][]issue{
		0: {{Key: "OPS-1", Fields: map[string]interface{}{"summary": "one"}}},
		1: {{Key: "OPS-2", Fields: map[string]interface{}{"summary": "two"}}},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/search", r.URL.Path)
		assert.Equal(t, issueFields, r.URL.Query().Get("fields"))
		assert.Equal(t, "project = OPS", r.URL.Query().Get("jql"))

		startAt := 0
		if r.URL.Query().Get("startAt") == "1" {
			startAt = 1
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(searchResponse{
			StartAt:    startAt,
			MaxResults: 1,
			Total:      2,
			Issues:     pages[startAt],
		})
	}))
	defer server.Close()

	client := NewJiraClient(&common.JiraConfig{
		BaseURL:        server.URL,
		APIToken:       "token",
		TimeoutSeconds: 5,
		MaxResults:     10,
	})

	records, err := client.SearchIssues("project = OPS", 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "OPS-1", records[0].Key)
	assert.Equal(t, "OPS-2", records[1].Key)
}

func TestSearchIssuesRespectsMaxResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("maxResults"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(searchResponse{
			Total:  50,
			Issues: []issue{{Key: "OPS-1", Fields: map[string]interface{}{}}},
		})
	}))
	defer server.Close()

	client := NewJiraClient(&common.JiraConfig{
		BaseURL:        server.URL,
		APIToken:       "token",
		TimeoutSeconds: 5,
		MaxResults:     100,
	})

	records, err := client.SearchIssues("", 1)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSearchIssuesNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad jql", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewJiraClient(&common.JiraConfig{
		BaseURL:        server.URL,
		APIToken:       "token",
		TimeoutSeconds: 5,
		MaxResults:     10,
	})

	_, err := client.SearchIssues("nonsense", 10)
	require.Error(t, err)

	var snapErr *common.SnapshotError
	require.ErrorAs(t, err, &snapErr)
	assert.Equal(t, common.ErrorTypeJira, snapErr.Type)
}

func TestSearchIssuesBasicAuthWhenUsernameSet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "alice@example.com", user)
		assert.Equal(t, "token", pass)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(searchResponse{})
	}))
	defer server.Close()

	client := NewJiraClient(&common.JiraConfig{
		BaseURL:        server.URL,
		Username:       "alice@example.com",
		APIToken:       "token",
		TimeoutSeconds: 5,
		MaxResults:     10,
	})

	_, err := client.SearchIssues("", 10)
	require.NoError(t, err)
}
