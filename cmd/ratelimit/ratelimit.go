package ratelimit

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bjulian5/prdash/internal/common"
	"github.com/bjulian5/prdash/internal/ui"
)

// Command checks the token and prints the remaining API quota
type Command struct {
	Token string

	Clients *common.Clients
}

// Register registers the command with cobra
func (c *Command) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "ratelimit",
		Short: "Check the token and show the remaining API quota",
		Long: `Authenticate against the GitHub API and show which authorization
scheme was accepted along with the remaining request quota.

Example:
  prdash ratelimit
  prdash ratelimit --token ghp_xxx`,
		Args: cobra.NoArgs,
		PreRunE: func(cobraCmd *cobra.Command, args []string) error {
			configFile, _ := cobraCmd.Flags().GetString("config")
			var err error
			c.Clients, err = common.InitClients(configFile)
			return err
		},
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return c.Run(cobraCmd.Context())
		},
	}

	command.Flags().StringVar(&c.Token, "token", "", "GitHub token (defaults to PRDASH_GITHUB_TOKEN or GITHUB_TOKEN)")

	parent.AddCommand(command)
}

// Run executes the command
func (c *Command) Run(ctx context.Context) error {
	headers, status, err := c.Clients.GitHub.Authenticate(ctx, c.Clients.Headers(c.Clients.ResolveToken(c.Token)))
	if err != nil {
		if hints := ui.RenderHints(err); hints != "" {
			ui.Print(hints)
		}
		return fmt.Errorf("failed to authenticate: %w", err)
	}

	// anonymous requests still have a quota worth showing
	if status == nil {
		status, err = c.Clients.GitHub.Probe(ctx, headers)
		if err != nil {
			ui.Warningf("Could not read the anonymous quota: %v", err)
		}
	}

	ui.Print(ui.RenderRateLimit(status, headers.Scheme()))
	return nil
}
