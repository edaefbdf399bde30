package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bjulian5/prdash/internal/common"
	"github.com/bjulian5/prdash/internal/export"
	"github.com/bjulian5/prdash/internal/gh"
	"github.com/bjulian5/prdash/internal/stats"
	"github.com/bjulian5/prdash/internal/ui"
)

// DefaultInterval between refreshes
const DefaultInterval = time.Minute

// Command re-runs the pipeline on an interval and re-renders the dashboard
type Command struct {
	Repo string

	Token    string
	Interval time.Duration
	Count    int // stop after this many refreshes; 0 runs until interrupted

	Clients *common.Clients
}

// Register registers the command with cobra
func (c *Command) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "watch <owner/repo | https://github.com/owner/repo>",
		Short: "Keep the dashboard up to date",
		Long: `Fetch pull requests on an interval and re-render the summary and table.

Retrieval goes through the in-memory cache, so intervals shorter than
cache.ttl re-render cached data without calling the API. Stop with Ctrl+C.

Example:
  prdash watch octo/repo
  prdash watch octo/repo --interval 30s`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cobraCmd *cobra.Command, args []string) error {
			configFile, _ := cobraCmd.Flags().GetString("config")
			var err error
			c.Clients, err = common.InitClients(configFile)
			return err
		},
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			c.Repo = args[0]
			ctx, stop := signal.NotifyContext(cobraCmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.Run(ctx)
		},
	}

	command.Flags().StringVar(&c.Token, "token", "", "GitHub token (defaults to PRDASH_GITHUB_TOKEN or GITHUB_TOKEN)")
	command.Flags().DurationVar(&c.Interval, "interval", DefaultInterval, "Time between refreshes")
	command.Flags().IntVar(&c.Count, "count", 0, "Stop after this many refreshes (0 = until interrupted)")

	parent.AddCommand(command)
}

// Run executes the command until ctx is done or Count refreshes have happened.
// Failed refreshes are reported and retried on the next tick, except for
// authentication failures which stop the loop.
func (c *Command) Run(ctx context.Context) error {
	if c.Interval <= 0 {
		return fmt.Errorf("--interval must be positive")
	}
	if _, _, err := common.ParseRepo(c.Repo); err != nil {
		return err
	}

	cols, err := export.SelectColumns(export.DefaultTableColumns)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()

	for refresh := 1; ; refresh++ {
		if err := c.refresh(ctx, cols); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, gh.ErrAuthentication) {
				return err
			}
		}

		if c.Count > 0 && refresh >= c.Count {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (c *Command) refresh(ctx context.Context, cols []export.Column) error {
	result, err := c.Clients.Fetch(ctx, c.Repo, c.Token)

	ui.Print(ui.RenderSeparator(0))
	ui.Print(ui.Subtitle(fmt.Sprintf("Updated %s · every %s · Ctrl+C to stop", time.Now().Format(time.TimeOnly), c.Interval)))

	if err != nil {
		if ctx.Err() == nil {
			ui.Print(ui.RenderFailure(err))
		}
		return err
	}

	if result.Empty() {
		ui.Print(ui.RenderEmpty(result.Owner, result.Repo))
		return nil
	}

	source := "live"
	if result.FromCache {
		source = "cached"
	}
	ui.Print(ui.RenderTitle(fmt.Sprintf("Pull Requests · %s/%s (%s)", result.Owner, result.Repo, source)))
	if result.FromCache {
		ui.Infof("Served from cache, the API is queried again after %s", c.Clients.Config.Cache.TTL)
	}
	ui.Print(ui.RenderSummary(stats.Summarize(result.Records)))
	ui.Print(ui.RenderRecordTable(result.Records, cols))
	if diag := ui.RenderDiagnostics(result.Diagnostics); diag != "" {
		ui.Print(diag)
	}
	return nil
}
