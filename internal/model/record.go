package model

import "time"

// Status is the lifecycle state of a pull request
type Status string

const (
	StatusOpen   Status = "Open"
	StatusClosed Status = "Closed"
	StatusMerged Status = "Merged"
)

// Statuses lists every status in display order
var Statuses = []Status{StatusOpen, StatusClosed, StatusMerged}

// Record is one normalized pull request row.
// Optional values are nil (times, elapsed days) or empty (work item).
type Record struct {
	Number       int
	Title        string
	CreatedAt    time.Time
	MergedAt     *time.Time
	ClosedAt     *time.Time
	Status       Status
	ElapsedDays  *int // whole days from creation to merge or close
	Link         string
	Author       string
	Labels       string // comma-joined label names
	Assignees    string // comma-joined assignee logins
	WorkItem     string // 7-digit identifier, "" when none was found
	WorkItemURL  string
	Comments     int
	Additions    int
	Deletions    int
	ChangedFiles int
}

// HasWorkItem reports whether a linked work item was extracted
func (r Record) HasWorkItem() bool {
	return r.WorkItem != ""
}

// TotalChanges is additions plus deletions
func (r Record) TotalChanges() int {
	return r.Additions + r.Deletions
}

// DeriveStatus applies merge-over-close precedence
func DeriveStatus(mergedAt, closedAt *time.Time) Status {
	switch {
	case mergedAt != nil:
		return StatusMerged
	case closedAt != nil:
		return StatusClosed
	default:
		return StatusOpen
	}
}
