package models

// Columns lists the fixed issue-table schema in display order. Report
// writers depend on these names verbatim.
var Columns = []string{
	"Key", "Summary", "Assignee", "Reporter", "P", "Status",
	"Resolution", "Created", "Updated", "Due", "Labels",
}

// Record is one fully assembled logical table row under the fixed
// 11-column schema. Every column is always present, possibly empty.
type Record struct {
	Key        string `json:"key"`
	Summary    string `json:"summary"`
	Assignee   string `json:"assignee"`
	Reporter   string `json:"reporter"`
	P          string `json:"p"`
	Status     string `json:"status"`
	Resolution string `json:"resolution"`
	Created    string `json:"created"`
	Updated    string `json:"updated"`
	Due        string `json:"due"`
	Labels     string `json:"labels"`
}

// Values returns the record's column values in schema order.
func (r *Record) Values() []string {
	return []string{
		r.Key, r.Summary, r.Assignee, r.Reporter, r.P, r.Status,
		r.Resolution, r.Created, r.Updated, r.Due, r.Labels,
	}
}

// SetColumn assigns a value by schema position. Out-of-range indexes are
// ignored; overflow cells are the assembler's concern, not the record's.
func (r *Record) SetColumn(index int, value string) {
	switch index {
	case 0:
		r.Key = value
	case 1:
		r.Summary = value
	case 2:
		r.Assignee = value
	case 3:
		r.Reporter = value
	case 4:
		r.P = value
	case 5:
		r.Status = value
	case 6:
		r.Resolution = value
	case 7:
		r.Created = value
	case 8:
		r.Updated = value
	case 9:
		r.Due = value
	case 10:
		r.Labels = value
	}
}

// AppendLabels space-appends text to the Labels column. Used for overflow
// cells and for continuation rows that wrapped below their record.
func (r *Record) AppendLabels(text string) {
	if text == "" {
		return
	}
	if r.Labels == "" {
		r.Labels = text
		return
	}
	r.Labels += " " + text
}
