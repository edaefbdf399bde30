package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bjulian5/prdash/internal/model"
)

// Column is one field of a Record as shown in tables and CSV files
type Column struct {
	Name   string // flag-friendly key, e.g. "created"
	Header string // display name, e.g. "Created Date"
	Value  func(r model.Record) string
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

// Columns is the stable column set, in default CSV order
var Columns = []Column{
	{Name: "number", Header: "PR No", Value: func(r model.Record) string { return strconv.Itoa(r.Number) }},
	{Name: "title", Header: "PR Title", Value: func(r model.Record) string { return r.Title }},
	{Name: "created", Header: "Created Date", Value: func(r model.Record) string { return formatTime(&r.CreatedAt) }},
	{Name: "merged", Header: "Merged Date", Value: func(r model.Record) string { return formatTime(r.MergedAt) }},
	{Name: "closed", Header: "Closed Date", Value: func(r model.Record) string { return formatTime(r.ClosedAt) }},
	{Name: "status", Header: "Status", Value: func(r model.Record) string { return string(r.Status) }},
	{Name: "link", Header: "Link", Value: func(r model.Record) string { return r.Link }},
	{Name: "workitem", Header: "Workitem", Value: func(r model.Record) string { return r.WorkItem }},
	{Name: "workitem_url", Header: "Workitem URL", Value: func(r model.Record) string { return r.WorkItemURL }},
	{Name: "elapsed", Header: "Time to Merge/Close (days)", Value: func(r model.Record) string { return formatInt(r.ElapsedDays) }},
	{Name: "author", Header: "Author", Value: func(r model.Record) string { return r.Author }},
	{Name: "labels", Header: "Labels", Value: func(r model.Record) string { return r.Labels }},
	{Name: "assignees", Header: "Assignees", Value: func(r model.Record) string { return r.Assignees }},
	{Name: "comments", Header: "Comments", Value: func(r model.Record) string { return strconv.Itoa(r.Comments) }},
	{Name: "additions", Header: "Additions", Value: func(r model.Record) string { return strconv.Itoa(r.Additions) }},
	{Name: "deletions", Header: "Deletions", Value: func(r model.Record) string { return strconv.Itoa(r.Deletions) }},
	{Name: "changed_files", Header: "Changed Files", Value: func(r model.Record) string { return strconv.Itoa(r.ChangedFiles) }},
}

// DefaultTableColumns are shown by the fetch command when no --columns flag is given
var DefaultTableColumns = []string{"number", "title", "author", "created", "merged", "closed", "status", "link", "workitem", "elapsed"}

// ColumnNames lists every valid column name
func ColumnNames() []string {
	names := make([]string, 0, len(Columns))
	for _, c := range Columns {
		names = append(names, c.Name)
	}
	return names
}

// LookupColumn finds a column by name or display header, ignoring case
func LookupColumn(name string) (Column, bool) {
	name = strings.TrimSpace(name)
	for _, c := range Columns {
		if strings.EqualFold(c.Name, name) || strings.EqualFold(c.Header, name) {
			return c, true
		}
	}
	return Column{}, false
}

// SelectColumns resolves names in caller order. No names selects every column.
func SelectColumns(names []string) ([]Column, error) {
	if len(names) == 0 {
		return Columns, nil
	}

	selected := make([]Column, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		c, ok := LookupColumn(name)
		if !ok {
			return nil, fmt.Errorf("unknown column %q (valid: %s)", name, strings.Join(ColumnNames(), ", "))
		}
		selected = append(selected, c)
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no columns selected")
	}
	return selected, nil
}

// Headers returns the display names of cols
func Headers(cols []Column) []string {
	headers := make([]string, 0, len(cols))
	for _, c := range cols {
		headers = append(headers, c.Header)
	}
	return headers
}

// Row renders one record for cols
func Row(r model.Record, cols []Column) []string {
	row := make([]string, 0, len(cols))
	for _, c := range cols {
		row = append(row, c.Value(r))
	}
	return row
}
