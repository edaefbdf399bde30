package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/bjulian5/prdash/cmd/exportcmd"
	"github.com/bjulian5/prdash/cmd/fetch"
	"github.com/bjulian5/prdash/cmd/pick"
	"github.com/bjulian5/prdash/cmd/ratelimit"
	"github.com/bjulian5/prdash/cmd/statscmd"
	"github.com/bjulian5/prdash/cmd/watch"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "prdash",
	Short: "GitHub pull request dashboard",
	Long: `prdash fetches the most recent pull requests of a GitHub repository and
turns them into a dashboard: status, time to merge or close, linked work
items, author and size analytics, and CSV export.

Configuration is read from PRDASH_* environment variables, an optional .env
file in the working directory, and an optional --config file.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		log.Fatal(err)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (yaml, json or toml)")

	// Register all commands
	commands := []Command{
		&fetch.Command{},
		&exportcmd.Command{},
		&statscmd.Command{},
		&pick.Command{},
		&ratelimit.Command{},
		&watch.Command{},
	}

	for _, cmd := range commands {
		cmd.Register(rootCmd)
	}
}
