package gh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

type rateLimitJSON struct {
	Rate *struct {
		Remaining *int  `json:"remaining"`
		Limit     *int  `json:"limit"`
		Reset     int64 `json:"reset"`
	} `json:"rate"`
}

// Probe asks the rate limit endpoint whether the headers are accepted.
// Any request error, non-200 status or missing quota numbers counts as a rejection.
func (c *Client) Probe(ctx context.Context, h Headers) (*RateLimitStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rate_limit", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rate limit request: %w", err)
	}
	h.apply(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rate limit request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate limit endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read rate limit response: %w", err)
	}

	var data rateLimitJSON
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse rate limit response: %w", err)
	}
	if data.Rate == nil || data.Rate.Remaining == nil || data.Rate.Limit == nil {
		return nil, errors.New("rate limit response carries no quota")
	}

	return &RateLimitStatus{
		Remaining: *data.Rate.Remaining,
		Limit:     *data.Rate.Limit,
		Reset:     time.Unix(data.Rate.Reset, 0).UTC(),
	}, nil
}

// Authenticate settles the authorization scheme for a run.
//
// Without a token it returns h unchanged. With a token it probes with the
// "token" scheme, then exactly once more with "Bearer". The returned Headers
// carry whichever scheme was accepted; if both are rejected the run must stop
// with ErrAuthentication instead of silently continuing anonymously.
func (c *Client) Authenticate(ctx context.Context, h Headers) (Headers, *RateLimitStatus, error) {
	if !h.HasToken() {
		return h, nil, nil
	}

	primary := h.WithScheme(SchemeToken)
	status, primaryErr := c.Probe(ctx, primary)
	if primaryErr == nil {
		c.log.Debugw("token accepted", "scheme", primary.Scheme(), "remaining", status.Remaining, "limit", status.Limit)
		return primary, status, nil
	}
	if ctx.Err() != nil {
		return h, nil, ctx.Err()
	}

	c.log.Warnw("token scheme rejected, trying bearer", "error", primaryErr)

	fallback := h.WithScheme(SchemeBearer)
	status, fallbackErr := c.Probe(ctx, fallback)
	if fallbackErr == nil {
		c.log.Debugw("token accepted", "scheme", fallback.Scheme(), "remaining", status.Remaining, "limit", status.Limit)
		return fallback, status, nil
	}
	if ctx.Err() != nil {
		return h, nil, ctx.Err()
	}

	return h, nil, &APIError{
		Kind:    KindAuthentication,
		Message: "token rejected with both token and Bearer schemes",
		Hints:   []string{"Check that the token is valid and has not expired."},
		Err:     errors.Join(primaryErr, fallbackErr),
	}
}
