package gh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL        = "https://api.github.com"
	DefaultRequestTimeout = 30 * time.Second
	DefaultProbeTimeout   = 10 * time.Second
	DefaultMaxAttempts    = 3
	DefaultBackoffUnit    = time.Second
)

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	BaseURL        string
	RequestTimeout time.Duration // per attempt
	ProbeTimeout   time.Duration
	MaxAttempts    int
	BackoffUnit    time.Duration // delay before retry n is BackoffUnit * 2^n
	HTTPClient     *http.Client
	Logger         *zap.SugaredLogger
}

// Client talks to the GitHub REST API. It is the only component that performs network I/O.
// A Client holds no per-run state and is safe for concurrent use.
type Client struct {
	baseURL        string
	requestTimeout time.Duration
	probeTimeout   time.Duration
	maxAttempts    int
	backoffUnit    time.Duration
	httpClient     *http.Client
	log            *zap.SugaredLogger

	// newTimer overrides the backoff timer (tests)
	newTimer func() backoff.Timer
}

// NewClient creates a new GitHub client
func NewClient(opts Options) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		requestTimeout: opts.RequestTimeout,
		probeTimeout:   opts.ProbeTimeout,
		maxAttempts:    opts.MaxAttempts,
		backoffUnit:    opts.BackoffUnit,
		httpClient:     opts.HTTPClient,
		log:            opts.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.requestTimeout <= 0 {
		c.requestTimeout = DefaultRequestTimeout
	}
	if c.probeTimeout <= 0 {
		c.probeTimeout = DefaultProbeTimeout
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = DefaultMaxAttempts
	}
	if c.backoffUnit <= 0 {
		c.backoffUnit = DefaultBackoffUnit
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.log == nil {
		c.log = zap.NewNop().Sugar()
	}
	return c
}

// ListPullRequests fetches the newest page of pull requests in every state.
//
// Timeouts, connection failures and unclassified statuses are retried up to
// the attempt cap. 401, 403, 404 and undecodable 200 bodies are terminal and
// returned as *APIError without retrying. An empty array is a success with
// zero items.
func (c *Client) ListPullRequests(ctx context.Context, h Headers, owner, repoName string) ([]RawItem, error) {
	endpoint := c.pullsURL(owner, repoName)

	var items []RawItem
	attempt := 0
	operation := func() error {
		attempt++
		resp, err := c.get(ctx, h, endpoint)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return &APIError{
				Kind:    KindTransient,
				Message: fmt.Sprintf("request failed (attempt %d/%d)", attempt, c.maxAttempts),
				Err:     err,
			}
		}

		items, err = classifyResponse(resp, owner, repoName, h.HasToken())
		if err != nil {
			if IsRetryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}

	notify := func(err error, delay time.Duration) {
		c.log.Warnw("retrying pull request list",
			"owner", owner,
			"repo", repoName,
			"attempt", attempt,
			"max_attempts", c.maxAttempts,
			"delay", delay,
			"error", err,
		)
	}

	policy := backoff.WithContext(&doublingBackOff{unit: c.backoffUnit, maxAttempts: c.maxAttempts}, ctx)

	var timer backoff.Timer
	if c.newTimer != nil {
		timer = c.newTimer()
	}

	if err := backoff.RetryNotifyWithTimer(operation, policy, notify, timer); err != nil {
		return nil, err
	}

	c.log.Debugw("fetched pull requests", "owner", owner, "repo", repoName, "count", len(items), "attempts", attempt)
	return items, nil
}

func (c *Client) pullsURL(owner, repoName string) string {
	query := url.Values{}
	query.Set("state", DefaultState)
	query.Set("per_page", strconv.Itoa(PageSize))
	query.Set("sort", "created")
	query.Set("direction", "desc")
	query.Set("page", "1")

	return fmt.Sprintf("%s/repos/%s/%s/pulls?%s",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repoName), query.Encode())
}

// response is a fully-read HTTP response, detached from the attempt's deadline
type response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// get performs one attempt bounded by the per-request timeout
func (c *Client) get(ctx context.Context, h Headers, endpoint string) (*response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	h.apply(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

func classifyResponse(resp *response, owner, repoName string, withToken bool) ([]RawItem, error) {
	switch resp.StatusCode {
	case http.StatusOK:
		return decodeItems(resp.Body)

	case http.StatusUnauthorized:
		return nil, &APIError{
			Kind:       KindAuthentication,
			Message:    "invalid GitHub token",
			StatusCode: resp.StatusCode,
			Hints:      []string{"Check your token."},
		}

	case http.StatusForbidden:
		if isRateLimited(resp.Header) {
			return nil, rateLimitError(resp, withToken)
		}
		return nil, &APIError{
			Kind:       KindForbidden,
			Message:    "access forbidden (403)",
			StatusCode: resp.StatusCode,
			Hints:      []string{"This might be a private repository or your token lacks permissions."},
		}

	case http.StatusNotFound:
		hint := "If this is a private repository, you need a GitHub token with 'repo' scope."
		if withToken {
			hint = "For private repositories, ensure your token has the 'repo' scope."
		}
		return nil, &APIError{
			Kind:       KindNotFound,
			Message:    fmt.Sprintf("repository '%s/%s' not found", owner, repoName),
			StatusCode: resp.StatusCode,
			Hints: []string{
				"The repository name may be incorrect.",
				"The repository may be private and your token lacks 'repo' scope.",
				"The repository may not exist or you may not have access.",
				hint,
			},
		}

	default:
		apiErr := &APIError{
			Kind:       KindTransient,
			Message:    fmt.Sprintf("unexpected status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
		if body := strings.TrimSpace(truncateBody(resp.Body)); body != "" {
			apiErr.Err = errors.New(body)
		}
		return nil, apiErr
	}
}

func decodeItems(body []byte) ([]RawItem, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &APIError{Kind: KindMalformed, Message: "invalid response format from GitHub API", StatusCode: http.StatusOK, Err: err}
	}

	list, ok := payload.([]any)
	if !ok {
		return nil, &APIError{Kind: KindMalformed, Message: "expected a JSON array of pull requests", StatusCode: http.StatusOK}
	}

	items := make([]RawItem, 0, len(list))
	for i, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			return nil, &APIError{
				Kind:       KindMalformed,
				Message:    fmt.Sprintf("pull request entry %d is not an object", i),
				StatusCode: http.StatusOK,
			}
		}
		items = append(items, RawItem(obj))
	}
	return items, nil
}

func isRateLimited(header http.Header) bool {
	remaining := strings.TrimSpace(header.Get("X-RateLimit-Remaining"))
	if remaining == "" {
		return false
	}
	n, err := strconv.Atoi(remaining)
	return err == nil && n == 0
}

func rateLimitError(resp *response, withToken bool) *APIError {
	apiErr := &APIError{
		Kind:       KindRateLimited,
		Message:    "rate limit exceeded",
		StatusCode: resp.StatusCode,
	}

	if reset, err := strconv.ParseInt(strings.TrimSpace(resp.Header.Get("X-RateLimit-Reset")), 10, 64); err == nil {
		apiErr.ResetAt = time.Unix(reset, 0).UTC()
		apiErr.Message = fmt.Sprintf("rate limit exceeded, resets at %s", apiErr.ResetAt.Format(time.RFC3339))
	}

	if withToken {
		apiErr.Hints = []string{"The limit was hit even with a token: it may be invalid or you exceeded the authenticated quota."}
	} else {
		apiErr.Hints = []string{"Add a GitHub token for a higher rate limit, or wait for the reset."}
	}
	return apiErr
}

func truncateBody(body []byte) string {
	const maxLen = 200
	if len(body) > maxLen {
		return string(body[:maxLen]) + "..."
	}
	return string(body)
}

// doublingBackOff waits unit*2^n after the nth failed attempt and stops once
// maxAttempts attempts have been made.
type doublingBackOff struct {
	unit        time.Duration
	maxAttempts int
	failures    int
}

func (b *doublingBackOff) NextBackOff() time.Duration {
	b.failures++
	if b.failures >= b.maxAttempts {
		return backoff.Stop
	}
	return b.unit * time.Duration(1<<b.failures)
}

func (b *doublingBackOff) Reset() {
	b.failures = 0
}
