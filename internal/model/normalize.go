package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/bjulian5/prdash/internal/gh"
)

const (
	DefaultTitle  = "No Title"
	UnknownAuthor = "Unknown"
)

// ProcessingError reports a raw item that could not be normalized.
// It is per-item: the batch carries on without that row.
type ProcessingError struct {
	Number int // 0 when the item carried no number
	Err    error
}

func (e *ProcessingError) Error() string {
	if e.Number == 0 {
		return fmt.Sprintf("error processing PR #unknown: %v", e.Err)
	}
	return fmt.Sprintf("error processing PR #%d: %v", e.Number, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

var (
	ErrMissingCreatedAt = errors.New("created_at is missing")
	ErrNegativeElapsed  = errors.New("terminal timestamp precedes created_at")
)

// Normalizer turns raw list items into Records
type Normalizer struct {
	workItems *WorkItemExtractor
}

// NewNormalizer creates a normalizer using the given work item rules
func NewNormalizer(workItems *WorkItemExtractor) *Normalizer {
	return &Normalizer{workItems: workItems}
}

// Normalize maps one raw item to a Record. It never mutates raw.
func (n *Normalizer) Normalize(raw gh.RawItem) (Record, error) {
	item := map[string]any(raw)
	number := asInt(item["number"])

	fail := func(err error) (Record, error) {
		return Record{}, &ProcessingError{Number: number, Err: err}
	}

	createdRaw, ok := item["created_at"]
	if !ok || createdRaw == nil {
		return fail(ErrMissingCreatedAt)
	}
	createdAt, err := parseTimestamp(createdRaw)
	if err != nil {
		return fail(fmt.Errorf("created_at: %w", err))
	}

	mergedAt, err := optionalTimestamp(item, "merged_at")
	if err != nil {
		return fail(err)
	}
	closedAt, err := optionalTimestamp(item, "closed_at")
	if err != nil {
		return fail(err)
	}

	elapsed, err := elapsedDays(createdAt, mergedAt, closedAt)
	if err != nil {
		return fail(err)
	}

	record := Record{
		Number:       number,
		Title:        DefaultTitle,
		CreatedAt:    createdAt,
		MergedAt:     mergedAt,
		ClosedAt:     closedAt,
		Status:       DeriveStatus(mergedAt, closedAt),
		ElapsedDays:  elapsed,
		Author:       UnknownAuthor,
		Labels:       joinNames(item["labels"], "name"),
		Assignees:    joinNames(item["assignees"], "login"),
		Comments:     asInt(item["comments"]),
		Additions:    asInt(item["additions"]),
		Deletions:    asInt(item["deletions"]),
		ChangedFiles: asInt(item["changed_files"]),
	}

	if title, ok := asString(item["title"]); ok {
		record.Title = title
	}
	if link, ok := asString(item["html_url"]); ok {
		record.Link = link
	}
	if login, ok := asString(fromMap(item, "user", "login")); ok && login != "" {
		record.Author = login
	}

	if n.workItems != nil {
		title, _ := asString(item["title"])
		body, _ := asString(item["body"])
		if id, url, found := n.workItems.Extract(title, body); found {
			record.WorkItem = id
			record.WorkItemURL = url
		}
	}

	return record, nil
}

// NormalizeAll normalizes every item, keeping input order.
// Failed items are skipped and returned as diagnostics.
func (n *Normalizer) NormalizeAll(items []gh.RawItem) ([]Record, []*ProcessingError) {
	records := make([]Record, 0, len(items))
	var diagnostics []*ProcessingError

	for _, item := range items {
		record, err := n.Normalize(item)
		if err != nil {
			var procErr *ProcessingError
			if !errors.As(err, &procErr) {
				procErr = &ProcessingError{Number: asInt(item["number"]), Err: err}
			}
			diagnostics = append(diagnostics, procErr)
			continue
		}
		records = append(records, record)
	}

	return records, diagnostics
}

// elapsedDays measures whole days to the merge, or to the close when unmerged
func elapsedDays(createdAt time.Time, mergedAt, closedAt *time.Time) (*int, error) {
	end := mergedAt
	if end == nil {
		end = closedAt
	}
	if end == nil {
		return nil, nil
	}

	d := end.Sub(createdAt)
	if d < 0 {
		return nil, fmt.Errorf("%w: created %s, ended %s", ErrNegativeElapsed,
			createdAt.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	days := int(d / (24 * time.Hour))
	return &days, nil
}
