package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bjulian5/prdash/internal/gh"
	"github.com/bjulian5/prdash/internal/model"
)

// Fetcher defines the GitHub operations needed by the Runner
type Fetcher interface {
	Authenticate(ctx context.Context, h gh.Headers) (gh.Headers, *gh.RateLimitStatus, error)
	ListPullRequests(ctx context.Context, h gh.Headers, owner, repoName string) ([]gh.RawItem, error)
}

// Normalizer defines the per-item transformation used by the Runner
type Normalizer interface {
	NormalizeAll(items []gh.RawItem) ([]model.Record, []*model.ProcessingError)
}

// Request describes one run
type Request struct {
	Owner string
	Repo  string
	Token string
}

// Result is the outcome of a successful run
type Result struct {
	RunID       string
	Owner       string
	Repo        string
	Records     []model.Record           // createdAt descending, as retrieved
	Diagnostics []*model.ProcessingError // items that were skipped
	RawCount    int
	RateLimit   *gh.RateLimitStatus // nil for anonymous runs
	Scheme      gh.AuthScheme
	FromCache   bool
	States      []State // every state the run passed through
}

// Empty reports a successful run that found no pull requests at all
func (r *Result) Empty() bool {
	return r.RawCount == 0
}

// Runner sequences authentication, retrieval and normalization.
// A Runner is safe for concurrent use; each Run call owns its headers.
type Runner struct {
	fetcher    Fetcher
	normalizer Normalizer
	cache      Cache
	userAgent  string
	log        *zap.SugaredLogger
	observer   func(runID string, from, to State)
}

// Option customizes a Runner
type Option func(*Runner)

// WithCache puts a cache in front of retrieval
func WithCache(c Cache) Option {
	return func(r *Runner) { r.cache = c }
}

// WithLogger sets the structured logger
func WithLogger(log *zap.SugaredLogger) Option {
	return func(r *Runner) { r.log = log }
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(userAgent string) Option {
	return func(r *Runner) { r.userAgent = userAgent }
}

// WithObserver is called on every state transition
func WithObserver(fn func(runID string, from, to State)) Option {
	return func(r *Runner) { r.observer = fn }
}

// NewRunner creates a new pipeline runner
func NewRunner(fetcher Fetcher, normalizer Normalizer, opts ...Option) *Runner {
	r := &Runner{
		fetcher:    fetcher,
		normalizer: normalizer,
		log:        zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// run tracks the state machine of one invocation
type run struct {
	id       string
	state    State
	history  []State
	observer func(runID string, from, to State)
	log      *zap.SugaredLogger
}

func (r *run) transition(to State) {
	if !CanTransition(r.state, to) {
		panic(fmt.Sprintf("BUG: illegal pipeline transition %s -> %s", r.state, to))
	}
	from := r.state
	r.state = to
	r.history = append(r.history, to)
	r.log.Debugw("pipeline state", "from", from, "to", to)
	if r.observer != nil {
		r.observer(r.id, from, to)
	}
}

// Run executes one complete pipeline pass.
//
// Authentication and retrieval failures abort the run and are returned as
// errors (wrapping *gh.APIError). Items that fail normalization only end up
// in Result.Diagnostics. A run that retrieves zero items succeeds with an
// Empty result.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	current := &run{
		id:       uuid.NewString(),
		state:    StateIdle,
		history:  []State{StateIdle},
		observer: r.observer,
	}
	current.log = r.log.With("run_id", current.id, "owner", req.Owner, "repo", req.Repo)

	result := &Result{RunID: current.id, Owner: req.Owner, Repo: req.Repo}

	current.transition(StateAuthenticating)
	headers, rateLimit, err := r.fetcher.Authenticate(ctx, gh.NewHeaders(req.Token, r.userAgent))
	if err != nil {
		current.transition(StateFailed)
		current.log.Errorw("authentication failed", "error", err)
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	result.Scheme = headers.Scheme()
	result.RateLimit = rateLimit

	current.transition(StateRetrieving)
	items, fromCache, err := r.retrieve(ctx, headers, req)
	if err != nil {
		current.transition(StateFailed)
		current.log.Errorw("retrieval failed", "error", err)
		return nil, fmt.Errorf("failed to fetch pull requests for %s/%s: %w", req.Owner, req.Repo, err)
	}
	result.RawCount = len(items)
	result.FromCache = fromCache

	current.transition(StateNormalizing)
	result.Records, result.Diagnostics = r.normalizer.NormalizeAll(items)
	for _, diag := range result.Diagnostics {
		current.log.Warnw("skipped pull request", "number", diag.Number, "error", diag.Err)
	}

	current.transition(StateDone)
	result.States = current.history

	current.log.Infow("pipeline finished",
		"raw", result.RawCount,
		"records", len(result.Records),
		"skipped", len(result.Diagnostics),
		"cached", result.FromCache,
	)
	return result, nil
}

func (r *Runner) retrieve(ctx context.Context, headers gh.Headers, req Request) ([]gh.RawItem, bool, error) {
	key := CacheKey{Owner: req.Owner, Repo: req.Repo, State: gh.DefaultState}

	if r.cache != nil {
		if items, ok := r.cache.Get(key); ok {
			return items, true, nil
		}
	}

	items, err := r.fetcher.ListPullRequests(ctx, headers, req.Owner, req.Repo)
	if err != nil {
		return nil, false, err
	}

	if r.cache != nil {
		r.cache.Set(key, items)
	}
	return items, false, nil
}
