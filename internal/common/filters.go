package common

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bjulian5/prdash/internal/model"
	"github.com/bjulian5/prdash/internal/pipeline"
	"github.com/bjulian5/prdash/internal/stats"
)

// FilterFlags are the record filters shared by fetch, export and stats
type FilterFlags struct {
	Statuses []string
	Authors  []string
	Since    string
	Until    string
}

// Register adds the filter flags to a command's flag set
func (f *FilterFlags) Register(flags *pflag.FlagSet) {
	flags.StringSliceVar(&f.Statuses, "status", nil, "Only show these statuses (open, closed, merged)")
	flags.StringSliceVar(&f.Authors, "author", nil, "Only show pull requests by these authors")
	flags.StringVar(&f.Since, "since", "", "Only show pull requests created on or after this date (YYYY-MM-DD)")
	flags.StringVar(&f.Until, "until", "", "Only show pull requests created on or before this date (YYYY-MM-DD)")
}

// Criteria converts the flag values, rejecting unknown statuses and bad dates
func (f *FilterFlags) Criteria() (stats.Criteria, error) {
	var c stats.Criteria
	for _, s := range f.Statuses {
		status, err := stats.ParseStatus(s)
		if err != nil {
			return c, err
		}
		c.Statuses = append(c.Statuses, status)
	}
	c.Authors = f.Authors

	var err error
	if c.Since, err = stats.ParseDate(f.Since); err != nil {
		return c, fmt.Errorf("--since: %w", err)
	}
	if c.Until, err = stats.ParseDate(f.Until); err != nil {
		return c, fmt.Errorf("--until: %w", err)
	}
	return c, c.Validate()
}

// Fetch parses the repository argument and runs the pipeline for it
func (c *Clients) Fetch(ctx context.Context, repoArg, flagToken string) (*pipeline.Result, error) {
	owner, repoName, err := ParseRepo(repoArg)
	if err != nil {
		return nil, err
	}
	return c.Runner.Run(ctx, pipeline.Request{
		Owner: owner,
		Repo:  repoName,
		Token: c.ResolveToken(flagToken),
	})
}

// FilterRecords applies the criteria, returning records unchanged when nothing filters
func FilterRecords(records []model.Record, criteria stats.Criteria) []model.Record {
	if len(criteria.Statuses) == 0 && len(criteria.Authors) == 0 && criteria.Since == nil && criteria.Until == nil {
		return records
	}
	return stats.Filter(records, criteria)
}
