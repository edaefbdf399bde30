package pick

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bjulian5/prdash/internal/common"
	"github.com/bjulian5/prdash/internal/model"
	"github.com/bjulian5/prdash/internal/ui"
)

// Command lets the user fuzzy-search pull requests and shows the chosen one
type Command struct {
	Repo  string
	Token string

	// Select picks one record; defaults to the interactive fuzzy finder
	Select func(records []model.Record) (*model.Record, error)

	Clients *common.Clients
}

// Register registers the command with cobra
func (c *Command) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "pick <owner/repo | https://github.com/owner/repo>",
		Short: "Interactively pick a pull request and show its details",
		Long: `Open a fuzzy finder over the most recent pull requests of a repository
and print the details of the selected one.

Example:
  prdash pick octo/repo`,
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

	parent.AddCommand(command)
}

// Run executes the command
func (c *Command) Run(ctx context.Context) error {
	result, err := c.Clients.Fetch(ctx, c.Repo, c.Token)
	if err != nil {
		if hints := ui.RenderHints(err); hints != "" {
			ui.Print(hints)
		}
		return err
	}
	if len(result.Records) == 0 {
		ui.Print(ui.RenderEmpty(result.Owner, result.Repo))
		return nil
	}

	selectFn := c.Select
	if selectFn == nil {
		selectFn = ui.SelectRecord
	}

	record, err := selectFn(result.Records)
	if err != nil {
		return err
	}
	if record == nil {
		ui.Info("No pull request selected")
		return nil
	}

	ui.Print(ui.RenderRecordDetail(*record))
	return nil
}
