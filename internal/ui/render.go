package ui

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bjulian5/prdash/internal/gh"
	"github.com/bjulian5/prdash/internal/model"
	"github.com/bjulian5/prdash/internal/stats"
)

// RenderSummary renders the headline metrics as a row of boxes
func RenderSummary(s stats.Summary) string {
	box := func(label string, value string) string {
		return BoxStyle.Render(Dim(label) + "\n" + Bold(value))
	}
	statusBox := func(status model.Status, count int) string {
		return BoxStyle.BorderForeground(GetStatusColor(status)).
			Render(Dim(string(status)) + "\n" + GetStatusStyle(status).Render(strconv.Itoa(count)))
	}
	return Columns(
		box("Total PRs", strconv.Itoa(s.Total)),
		statusBox(model.StatusMerged, s.Merged),
		statusBox(model.StatusOpen, s.Open),
		statusBox(model.StatusClosed, s.Closed),
		box("Avg Time to Close", stats.FormatAverage(s.AvgElapsed)),
	)
}

// RenderDiagnostics lists the pull requests that were skipped during normalization
func RenderDiagnostics(diagnostics []*model.ProcessingError) string {
	if len(diagnostics) == 0 {
		return ""
	}

	shown := diagnostics
	if Display.MaxDiagnostics > 0 && len(shown) > Display.MaxDiagnostics {
		shown = shown[:Display.MaxDiagnostics]
	}

	items := make([]string, 0, len(shown)+1)
	for _, d := range shown {
		items = append(items, WarningStyle.Render(d.Error()))
	}
	if len(diagnostics) > len(shown) {
		items = append(items, Dim(fmt.Sprintf("... and %d more", len(diagnostics)-len(shown))))
	}

	header := WarningStyle.Render(fmt.Sprintf("⚠ Skipped %d %s:", len(diagnostics), plural(len(diagnostics), "pull request", "pull requests")))
	return header + "\n" + RenderBulletList(items)
}

// RenderAuthorStats renders the author performance table
func RenderAuthorStats(rows []stats.AuthorStats) string {
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{r.Author, strconv.Itoa(r.Count), stats.FormatAverage(r.AvgElapsed)})
	}
	return RenderTable([]string{"Author", "PR Count", "Avg Time to Merge/Close"}, table)
}

// RenderSizeStats renders the size category table
func RenderSizeStats(rows []stats.SizeStats) string {
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{string(r.Category), strconv.Itoa(r.Count), stats.FormatAverage(r.AvgElapsed)})
	}
	return RenderTable([]string{"Size Category", "PR Count", "Avg Time to Merge/Close"}, table)
}

// RenderMonthStats renders PRs created per month, one column per status
func RenderMonthStats(rows []stats.MonthStats) string {
	headers := []string{"Month"}
	for _, s := range model.Statuses {
		headers = append(headers, string(s))
	}
	headers = append(headers, "Total")

	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		row := []string{r.Month}
		for _, s := range model.Statuses {
			row = append(row, strconv.Itoa(r.Counts[s]))
		}
		row = append(row, strconv.Itoa(r.Total()))
		table = append(table, row)
	}
	return RenderTable(headers, table)
}

// RenderRateLimit renders the quota reported by the authentication probe
func RenderRateLimit(status *gh.RateLimitStatus, scheme gh.AuthScheme) string {
	if status == nil {
		return RenderKeyValueList(map[string]string{
			"Auth":  Muted(scheme.String()),
			"Quota": Dim("unknown (no token, anonymous limits apply)"),
		}, []string{"Auth", "Quota"})
	}

	reset := "-"
	if !status.Reset.IsZero() {
		reset = status.Reset.Local().Format(time.Kitchen)
	}

	return RenderKeyValueList(map[string]string{
		"Auth":      Highlight(scheme.String()),
		"Remaining": fmt.Sprintf("%d / %d", status.Remaining, status.Limit),
		"Resets at": reset,
	}, []string{"Auth", "Remaining", "Resets at"})
}

// RenderEmpty is shown when a repository has no pull requests
func RenderEmpty(owner, repoName string) string {
	return RenderPanel(Dim(fmt.Sprintf("No pull requests found in %s/%s.", owner, repoName)))
}

// RenderFailure renders a pipeline error with any hints carried by the API error
func RenderFailure(err error) string {
	out := ErrorStyle.Render("✗ " + err.Error())
	if hints := RenderHints(err); hints != "" {
		out += "\n" + hints
	}
	return out
}

// RenderHints renders the hints carried by an API error, or "" when it has none
func RenderHints(err error) string {
	var apiErr *gh.APIError
	if !errors.As(err, &apiErr) || len(apiErr.Hints) == 0 {
		return ""
	}
	return Dim("This could mean:") + "\n" + RenderBulletList(apiErr.Hints)
}

// RenderRecordDetail renders a single record in a titled box
func RenderRecordDetail(r model.Record) string {
	return RenderBox(fmt.Sprintf("Pull Request #%d", r.Number), FormatRecordPreview(r))
}
