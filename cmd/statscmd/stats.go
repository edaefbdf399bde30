package statscmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bjulian5/prdash/internal/common"
	"github.com/bjulian5/prdash/internal/stats"
	"github.com/bjulian5/prdash/internal/ui"
)

// Command prints pull request analytics for a repository
type Command struct {
	Repo string

	Token   string
	Top     int
	Filters common.FilterFlags

	Clients *common.Clients
}

// Register registers the command with cobra
func (c *Command) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "stats <owner/repo | https://github.com/owner/repo>",
		Short: "Show pull request analytics",
		Long: `Show summary metrics, author performance, size categories and
monthly counts for the most recent pull requests of a repository.

Example:
  prdash stats octo/repo
  prdash stats octo/repo --since 2024-01-01 --top 5`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cobraCmd *cobra.Command, args []string) error {
			configFile, _ := cobraCmd.Flags().GetString("config")
			var err error
			c.Clients, err = common.InitClients(configFile)
			return err
		},
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			c.Repo = args[0]
			return c.Run(cobraCmd.Context())
		},
	}

	command.Flags().StringVar(&c.Token, "token", "", "GitHub token (defaults to PRDASH_GITHUB_TOKEN or GITHUB_TOKEN)")
	command.Flags().IntVar(&c.Top, "top", ui.Display.TopAuthors, "Number of authors to show")
	c.Filters.Register(command.Flags())

	parent.AddCommand(command)
}

// Run executes the command
func (c *Command) Run(ctx context.Context) error {
	criteria, err := c.Filters.Criteria()
	if err != nil {
		return err
	}

	result, err := c.Clients.Fetch(ctx, c.Repo, c.Token)
	if err != nil {
		if hints := ui.RenderHints(err); hints != "" {
			ui.Print(hints)
		}
		return err
	}
	if result.Empty() {
		ui.Print(ui.RenderEmpty(result.Owner, result.Repo))
		return nil
	}

	records := common.FilterRecords(result.Records, criteria)
	if len(records) == 0 {
		ui.Info("No pull requests match the filters")
		return nil
	}

	ui.Print(ui.RenderTitle(fmt.Sprintf("PR Analytics · %s/%s", result.Owner, result.Repo)))
	ui.Print(ui.RenderSummary(stats.Summarize(records)))

	ui.Print("")
	ui.Header("Author Performance")
	ui.Print(ui.RenderAuthorStats(stats.ByAuthor(records, c.Top)))

	ui.Print("")
	ui.Header("PR Size Analysis")
	ui.Print(ui.RenderSizeStats(stats.BySize(records)))

	ui.Print("")
	ui.Header("PRs Created per Month")
	ui.Print(ui.RenderMonthStats(stats.ByMonth(records)))

	if len(result.Diagnostics) > 0 {
		ui.Print("")
		ui.Warningf("%d pull requests were skipped and are not counted", len(result.Diagnostics))
	}
	return nil
}
