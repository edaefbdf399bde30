package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bjulian5/prdash/internal/gh"
)

type MockFetcher struct {
	mock.Mock
}

// Authenticate implements Fetcher.
func (m *MockFetcher) Authenticate(ctx context.Context, h gh.Headers) (gh.Headers, *gh.RateLimitStatus, error) {
	args := m.Called(ctx, h)
	var status *gh.RateLimitStatus
	if v := args.Get(1); v != nil {
		status = v.(*gh.RateLimitStatus)
	}
	return args.Get(0).(gh.Headers), status, args.Error(2)
}

// ListPullRequests implements Fetcher.
func (m *MockFetcher) ListPullRequests(ctx context.Context, h gh.Headers, owner string, repoName string) ([]gh.RawItem, error) {
	args := m.Called(ctx, h, owner, repoName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gh.RawItem), args.Error(1)
}
