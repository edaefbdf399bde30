package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bjulian5/prdash/internal/model"
)

// Status icons
const (
	IconOpen   = "●"
	IconMerged = "◆"
	IconClosed = "○"
)

// Status represents a pull request status with rendering capabilities
type Status struct {
	Icon   string
	Label  string
	Status model.Status
	Style  lipgloss.Style
}

// GetStatus returns a Status object for the given pull request status
func GetStatus(status model.Status) Status {
	style := GetStatusStyle(status)
	switch status {
	case model.StatusOpen:
		return Status{Icon: IconOpen, Label: "Open", Status: status, Style: style}
	case model.StatusMerged:
		return Status{Icon: IconMerged, Label: "Merged", Status: status, Style: style}
	default:
		return Status{Icon: IconClosed, Label: "Closed", Status: model.StatusClosed, Style: style}
	}
}

// Render returns the full status with icon and label (e.g., "● Open")
func (s Status) Render() string {
	return s.Style.Render(s.Icon + " " + s.Label)
}

// RenderCompact returns just the styled icon
func (s Status) RenderCompact() string {
	return s.Style.Render(s.Icon)
}

// RenderWithCount returns status with count (e.g., "● 3 open")
func (s Status) RenderWithCount(count int) string {
	if count == 0 {
		return ""
	}
	text := fmt.Sprintf("%s %d %s", s.Icon, count, strings.ToLower(s.Label))
	return s.Style.Render(text)
}

// FormatStatusSummary formats a summary of status counts
// e.g., "● 2 open  ◆ 5 merged  ○ 1 closed"
func FormatStatusSummary(open, merged, closed int) string {
	var parts []string

	if open > 0 {
		parts = append(parts, GetStatus(model.StatusOpen).RenderWithCount(open))
	}
	if merged > 0 {
		parts = append(parts, GetStatus(model.StatusMerged).RenderWithCount(merged))
	}
	if closed > 0 {
		parts = append(parts, GetStatus(model.StatusClosed).RenderWithCount(closed))
	}

	if len(parts) == 0 {
		return Dim("no PRs")
	}
	return strings.Join(parts, "  ")
}

// CountByStatus counts records by their status
func CountByStatus(records []model.Record) (open, merged, closed int) {
	for _, r := range records {
		switch r.Status {
		case model.StatusOpen:
			open++
		case model.StatusMerged:
			merged++
		case model.StatusClosed:
			closed++
		}
	}
	return
}
