package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bjulian5/prdash/internal/model"
)

// Truncate truncates text to maxLen with an ellipsis if needed
// Uses lipgloss for proper ANSI-aware width handling
func Truncate(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	width := lipgloss.Width(text)
	if width <= maxLen {
		return text
	}

	if maxLen <= 3 {
		return lipgloss.NewStyle().MaxWidth(maxLen).Render(text)
	}

	return lipgloss.NewStyle().MaxWidth(maxLen-3).Render(text) + "..."
}

func Pad(text string, width int, align lipgloss.Position) string {
	return lipgloss.PlaceHorizontal(width, align, text)
}

func RenderBox(title string, content string) string {
	style := BoxStyle
	if title != "" {
		style = style.BorderForeground(ColorPrimary)
		titleStyled := lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Render(title)

		combined := lipgloss.JoinVertical(lipgloss.Left, titleStyled, "", content)
		return style.Render(combined)
	}
	return style.Render(content)
}

func RenderPanel(content string) string {
	return PanelStyle.Render(content)
}

func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// RenderBulletList renders a list with bullets
func RenderBulletList(items []string) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, DimStyle.Render("  • ")+item)
	}
	return strings.Join(lines, "\n")
}

// RenderSeparator renders a horizontal separator line
func RenderSeparator(width int) string {
	if width <= 0 {
		width = GetTerminalWidth()
	}
	return DimStyle.Render(strings.Repeat("─", width))
}

// RenderKeyValueList renders pairs in keys order with aligned keys
func RenderKeyValueList(pairs map[string]string, keys []string) string {
	var lines []string

	maxKeyLen := 0
	for _, key := range keys {
		if keyLen := lipgloss.Width(key); keyLen > maxKeyLen {
			maxKeyLen = keyLen
		}
	}

	for _, key := range keys {
		paddedKey := Pad(key, maxKeyLen, lipgloss.Left)
		keyStyled := DimStyle.Render(paddedKey + ":")
		lines = append(lines, fmt.Sprintf("%s %s", keyStyled, pairs[key]))
	}

	return strings.Join(lines, "\n")
}

// FormatDate renders a timestamp as "2006-01-02 15:04" UTC, or "-" when absent
func FormatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04")
}

// FormatElapsed renders elapsed days, or "-" while still open
func FormatElapsed(days *int) string {
	if days == nil {
		return "-"
	}
	if *days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", *days)
}

// FormatRecordFinderLine formats a record for fuzzy finder display.
// Fuzzy finder doesn't support ANSI codes, so we use plain text.
func FormatRecordFinderLine(r model.Record) string {
	status := GetStatus(r.Status)
	line := fmt.Sprintf("#%d %s %s  @%s", r.Number, status.Icon, r.Title, r.Author)
	if r.HasWorkItem() {
		line += "  [" + r.WorkItem + "]"
	}
	return line
}

// FormatRecordPreview formats a record for the fuzzy finder preview window and the detail view.
// Preview pane supports ANSI codes, so we can use styling.
func FormatRecordPreview(r model.Record) string {
	keys := []string{"PR", "Title", "Status", "Author", "Created", "Merged", "Closed", "Time to close"}
	pairs := map[string]string{
		"PR":            Highlight(fmt.Sprintf("#%d", r.Number)),
		"Title":         Bold(Truncate(r.Title, Display.MaxTitleLengthDetailed)),
		"Status":        GetStatus(r.Status).Render(),
		"Author":        r.Author,
		"Created":       FormatDate(&r.CreatedAt),
		"Merged":        FormatDate(r.MergedAt),
		"Closed":        FormatDate(r.ClosedAt),
		"Time to close": FormatElapsed(r.ElapsedDays),
	}

	if r.Link != "" {
		keys = append(keys, "URL")
		pairs["URL"] = LinkStyle.Render(r.Link)
	}
	if r.HasWorkItem() {
		keys = append(keys, "Work item")
		pairs["Work item"] = fmt.Sprintf("%s %s", r.WorkItem, Muted(r.WorkItemURL))
	}
	if r.Labels != "" {
		keys = append(keys, "Labels")
		pairs["Labels"] = capList(r.Labels, Display.MaxPreviewLines)
	}
	if r.Assignees != "" {
		keys = append(keys, "Assignees")
		pairs["Assignees"] = capList(r.Assignees, Display.MaxPreviewLines)
	}
	keys = append(keys, "Changes")
	pairs["Changes"] = fmt.Sprintf("+%d -%d in %d files, %d comments", r.Additions, r.Deletions, r.ChangedFiles, r.Comments)

	return RenderKeyValueList(pairs, keys)
}

// capList keeps the first max entries of a ", "-joined list
func capList(joined string, max int) string {
	items := strings.Split(joined, ", ")
	if max <= 0 || len(items) <= max {
		return joined
	}
	return strings.Join(items[:max], ", ") + Dim(fmt.Sprintf(" +%d more", len(items)-max))
}

// Columns joins multiple strings horizontally
func Columns(items ...string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, items...)
}
