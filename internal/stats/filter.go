package stats

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bjulian5/prdash/internal/model"
)

// DateLayout is the accepted format for date window bounds
const DateLayout = "2006-01-02"

// Criteria narrows a record set. Empty fields do not filter.
type Criteria struct {
	Statuses []model.Status
	Authors  []string
	Since    *time.Time // inclusive, compared by UTC calendar date
	Until    *time.Time // inclusive, compared by UTC calendar date
}

// ParseStatus accepts a status name in any case
func ParseStatus(s string) (model.Status, error) {
	for _, status := range model.Statuses {
		if strings.EqualFold(strings.TrimSpace(s), string(status)) {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown status %q (expected one of open, closed, merged)", s)
}

// ParseDate parses a YYYY-MM-DD bound; an empty string means no bound
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return &t, nil
}

// Validate rejects a window whose start is after its end
func (c Criteria) Validate() error {
	if c.Since != nil && c.Until != nil && truncateDay(*c.Since).After(truncateDay(*c.Until)) {
		return fmt.Errorf("since %s is after until %s", c.Since.Format(DateLayout), c.Until.Format(DateLayout))
	}
	return nil
}

// Match reports whether one record passes every criterion
func (c Criteria) Match(r model.Record) bool {
	if len(c.Statuses) > 0 && !slices.Contains(c.Statuses, r.Status) {
		return false
	}
	if len(c.Authors) > 0 && !slices.Contains(c.Authors, r.Author) {
		return false
	}
	created := truncateDay(r.CreatedAt)
	if c.Since != nil && created.Before(truncateDay(*c.Since)) {
		return false
	}
	if c.Until != nil && created.After(truncateDay(*c.Until)) {
		return false
	}
	return true
}

// Filter returns the matching records in their original order
func Filter(records []model.Record, c Criteria) []model.Record {
	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if c.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
