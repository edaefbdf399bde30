package ui

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/charmbracelet/lipgloss/tree"

	"github.com/bjulian5/prdash/internal/model"
)

// RenderAuthorTree renders records grouped by author, most active authors first.
// Example output:
//
//	👥 3 authors, 5 PRs
//	├─ alice (● 1 open  ◆ 2 merged)
//	│  ├─ ◆ #12 Fix login
//	│  ├─ ● #11 Add search
//	│  ╰─ ◆ #9 Bump deps
//	╰─ bob (○ 1 closed)
//	   ╰─ ○ #10 Spike
func RenderAuthorTree(records []model.Record) string {
	if len(records) == 0 {
		return Dim("No pull requests to show")
	}

	groups := map[string][]model.Record{}
	var authors []string
	for _, r := range records {
		if _, ok := groups[r.Author]; !ok {
			authors = append(authors, r.Author)
		}
		groups[r.Author] = append(groups[r.Author], r)
	}
	slices.SortStableFunc(authors, func(a, b string) int {
		if c := cmp.Compare(len(groups[b]), len(groups[a])); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	title := fmt.Sprintf("👥 %d %s, %d PRs", len(authors), plural(len(authors), "author", "authors"), len(records))
	t := tree.Root(HeaderStyle.Render(title))

	for _, author := range authors {
		prs := groups[author]
		open, merged, closed := CountByStatus(prs)
		authorNode := tree.Root(TreeRootStyle.Render(author) + " " + Dim("(") + FormatStatusSummary(open, merged, closed) + Dim(")"))

		for _, r := range prs {
			authorNode.Child(formatRecordForTree(r))
		}
		t.Child(authorNode)
	}

	t.Enumerator(getEnumerator()).
		EnumeratorStyle(TreeEnumeratorStyle).
		Indenter(RenderTreeIndenter())

	return t.String()
}

// formatRecordForTree formats a record as "◆ #12 Fix login"
func formatRecordForTree(r model.Record) string {
	line := fmt.Sprintf("%s %s %s",
		GetStatus(r.Status).RenderCompact(),
		Highlight(fmt.Sprintf("#%d", r.Number)),
		TreeItemStyle.Render(Truncate(r.Title, Display.MaxTitleLength)),
	)
	if r.HasWorkItem() {
		line += " " + Dim("["+r.WorkItem+"]")
	}
	return line
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func getEnumerator() tree.Enumerator {
	if Display.TreeEnumerator == TreeDefault {
		return getDefaultEnumerator()
	}
	return getRoundedEnumerator()
}

// getRoundedEnumerator returns a custom rounded enumerator for trees
func getRoundedEnumerator() tree.Enumerator {
	return func(children tree.Children, i int) string {
		if children.Length() == 0 {
			return ""
		}
		if i == children.Length()-1 {
			return "╰─"
		}
		return "├─"
	}
}

// getDefaultEnumerator returns the default tree enumerator
func getDefaultEnumerator() tree.Enumerator {
	return func(children tree.Children, i int) string {
		if children.Length() == 0 {
			return ""
		}
		if i == children.Length()-1 {
			return "└─"
		}
		return "├─"
	}
}

// RenderTreeIndenter returns an indenter function for trees
func RenderTreeIndenter() tree.Indenter {
	return func(children tree.Children, i int) string {
		if children.Length() == 0 {
			return ""
		}
		if i == children.Length()-1 {
			return "   "
		}
		return "│  "
	}
}
