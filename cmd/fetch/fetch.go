package fetch

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bjulian5/prdash/internal/common"
	"github.com/bjulian5/prdash/internal/export"
	"github.com/bjulian5/prdash/internal/stats"
	"github.com/bjulian5/prdash/internal/ui"
)

// Command fetches and displays the pull requests of a repository
type Command struct {
	// Arguments
	Repo string

	// Flags
	Token   string
	Columns []string
	Tree    bool
	CSV     string
	Filters common.FilterFlags

	// Clients (can be replaced in tests)
	Clients *common.Clients
}

// Register registers the command with cobra
func (c *Command) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "fetch <owner/repo | https://github.com/owner/repo>",
		Short: "Fetch and display pull requests",
		Long: `Fetch the most recent pull requests of a repository and display them.

Shows a table of pull requests (or a tree grouped by author), summary
metrics, and any pull requests that could not be processed.

Example:
  prdash fetch octo/repo
  prdash fetch https://github.com/octo/repo --status merged --author alice
  prdash fetch octo/repo --columns number,title,status --csv prs.csv
  prdash fetch octo/repo --tree`,
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
	command.Flags().StringSliceVar(&c.Columns, "columns", nil, "Columns to display (default: "+fmt.Sprint(export.DefaultTableColumns)+")")
	command.Flags().BoolVar(&c.Tree, "tree", false, "Group pull requests by author")
	command.Flags().StringVar(&c.CSV, "csv", "", "Also write all columns of the shown pull requests to this CSV file")
	c.Filters.Register(command.Flags())

	parent.AddCommand(command)
}

// Run executes the command
func (c *Command) Run(ctx context.Context) error {
	criteria, err := c.Filters.Criteria()
	if err != nil {
		return err
	}

	names := c.Columns
	if len(names) == 0 {
		names = export.DefaultTableColumns
	}
	cols, err := export.SelectColumns(names)
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

	ui.Print(ui.RenderTitle(fmt.Sprintf("Pull Requests · %s/%s", result.Owner, result.Repo)))
	ui.Print(ui.RenderSummary(stats.Summarize(records)))
	ui.Print("")

	switch {
	case len(records) == 0:
		ui.Infof("No pull requests match the filters (%d fetched)", len(result.Records))
	case c.Tree:
		ui.Print(ui.RenderAuthorTree(records))
	default:
		ui.Print(ui.RenderRecordTable(records, cols))
	}

	if diag := ui.RenderDiagnostics(result.Diagnostics); diag != "" {
		ui.Print("")
		ui.Print(diag)
	}

	if c.CSV != "" {
		if err := export.WriteFile(c.CSV, records, export.Columns, true); err != nil {
			return fmt.Errorf("failed to export csv: %w", err)
		}
		ui.Successf("Wrote %d pull requests to %s", len(records), c.CSV)
	}

	return nil
}
