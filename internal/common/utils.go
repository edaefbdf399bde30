package common

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bjulian5/prdash/internal/config"
	"github.com/bjulian5/prdash/internal/gh"
	"github.com/bjulian5/prdash/internal/logger"
	"github.com/bjulian5/prdash/internal/model"
	"github.com/bjulian5/prdash/internal/pipeline"
	"github.com/bjulian5/prdash/internal/ui"
)

const githubPrefix = "https://github.com/"

// ParseRepo accepts "owner/repo" or a github.com URL and returns owner and repository name
func ParseRepo(arg string) (owner string, repoName string, err error) {
	s := strings.TrimSpace(arg)
	s = strings.TrimPrefix(s, githubPrefix)
	s = strings.TrimPrefix(s, "http://github.com/")
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSuffix(s, ".git")

	owner, repoName, found := strings.Cut(s, "/")
	if !found || owner == "" || repoName == "" {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/repo or %sowner/repo", arg, githubPrefix)
	}
	// drop anything after the repository name, e.g. /pulls
	repoName, _, _ = strings.Cut(repoName, "/")
	return owner, repoName, nil
}

// Clients bundles everything a command needs to run the pipeline
type Clients struct {
	Config *config.Config
	Log    *zap.SugaredLogger
	GitHub *gh.Client
	Cache  *pipeline.MemoryCache
	Runner *pipeline.Runner
}

// InitClients loads configuration and wires the GitHub client and pipeline runner.
// Returns an error that is suitable for use in PreRunE hooks.
func InitClients(configFile string, opts ...pipeline.Option) (*Clients, error) {
	cfg, err := config.NewConfig(configFile)
	if err != nil {
		ui.Error("Invalid configuration")
		return nil, fmt.Errorf("config initialization failed: %w", err)
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("logger initialization failed: %w", err)
	}

	extractor, err := model.NewWorkItemExtractor(cfg.WorkItem.Marker, cfg.WorkItem.URLTemplate)
	if err != nil {
		return nil, fmt.Errorf("work item rules initialization failed: %w", err)
	}

	clientOpts := cfg.ClientOptions()
	clientOpts.Logger = log
	ghClient := gh.NewClient(clientOpts)

	cache := pipeline.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.MaxEntries)

	runnerOpts := append([]pipeline.Option{
		pipeline.WithLogger(log),
		pipeline.WithUserAgent(cfg.GitHub.UserAgent),
		pipeline.WithCache(cache),
	}, opts...)
	runner := pipeline.NewRunner(ghClient, model.NewNormalizer(extractor), runnerOpts...)

	return &Clients{Config: cfg, Log: log, GitHub: ghClient, Cache: cache, Runner: runner}, nil
}

// ResolveToken prefers an explicit flag value over configuration
func (c *Clients) ResolveToken(flagToken string) string {
	if strings.TrimSpace(flagToken) != "" {
		return flagToken
	}
	return c.Config.GitHub.Token
}

// Headers builds request headers for token using the configured User-Agent
func (c *Clients) Headers(token string) gh.Headers {
	return gh.NewHeaders(token, c.Config.GitHub.UserAgent)
}
