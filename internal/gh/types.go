package gh

import "time"

// RawItem is one pull request object exactly as the list endpoint returned it.
// Any field may be absent or null.
type RawItem map[string]any

// RateLimitStatus is the quota reported by the rate limit endpoint
type RateLimitStatus struct {
	Remaining int       // requests left in the current window
	Limit     int       // requests allowed per window
	Reset     time.Time // when the window resets (UTC)
}

// DefaultState is the only state filter the list request uses
const DefaultState = "all"

// PageSize is the number of pull requests fetched per run (first page only)
const PageSize = 100
