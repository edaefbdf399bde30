package exportcmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bjulian5/prdash/internal/common"
	"github.com/bjulian5/prdash/internal/export"
	"github.com/bjulian5/prdash/internal/ui"
)

// Command writes the pull requests of a repository as CSV
type Command struct {
	// Arguments
	Repo string

	// Flags
	Token   string
	Output  string
	Force   bool
	Columns []string
	Filters common.FilterFlags

	// Interactive reports whether overwrites may be confirmed on the terminal
	Interactive func() bool

	// Clients (can be replaced in tests)
	Clients *common.Clients
}

// Register registers the command with cobra
func (c *Command) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "export <owner/repo | https://github.com/owner/repo>",
		Short: "Export pull requests as CSV",
		Long: `Export the most recent pull requests of a repository as CSV.

Writes to stdout unless --output is given. An existing output file is only
replaced with --force or after confirming on the terminal.

Example:
  prdash export octo/repo > prs.csv
  prdash export octo/repo --output prs.csv --status merged
  prdash export octo/repo -o prs.csv --columns number,title,author --force`,
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
	command.Flags().StringVarP(&c.Output, "output", "o", "", "CSV file to write (default: stdout)")
	command.Flags().BoolVarP(&c.Force, "force", "f", false, "Replace an existing output file without asking")
	command.Flags().StringSliceVar(&c.Columns, "columns", nil, "Columns to export (default: all)")
	c.Filters.Register(command.Flags())

	parent.AddCommand(command)
}

// Run executes the command
func (c *Command) Run(ctx context.Context) error {
	criteria, err := c.Filters.Criteria()
	if err != nil {
		return err
	}
	cols, err := export.SelectColumns(c.Columns)
	if err != nil {
		return err
	}

	overwrite := c.Force
	if c.Output != "" && !overwrite {
		if _, err := os.Stat(c.Output); err == nil {
			if !c.interactive() {
				return fmt.Errorf("%s already exists, use --force to replace it", c.Output)
			}
			if !ui.Confirm(fmt.Sprintf("%s already exists. Type 'yes' to replace it: ", c.Output), "yes") {
				ui.Warning("Export cancelled")
				return nil
			}
			overwrite = true
		}
	}

	result, err := c.Clients.Fetch(ctx, c.Repo, c.Token)
	if err != nil {
		if hints := ui.RenderHints(err); hints != "" {
			ui.Print(hints)
		}
		return err
	}

	records := common.FilterRecords(result.Records, criteria)

	if c.Output == "" {
		return export.WriteCSV(ui.Out, records, cols)
	}

	if err := export.WriteFile(c.Output, records, cols, overwrite); err != nil {
		if errors.Is(err, export.ErrFileExists) {
			return fmt.Errorf("%s was created while fetching, use --force to replace it", c.Output)
		}
		return err
	}

	ui.Successf("Exported %d pull requests to %s", len(records), c.Output)
	if len(result.Diagnostics) > 0 {
		ui.Warningf("%d pull requests were skipped, run fetch to see why", len(result.Diagnostics))
	}
	return nil
}

func (c *Command) interactive() bool {
	if c.Interactive != nil {
		return c.Interactive()
	}
	return ui.IsInteractive()
}
