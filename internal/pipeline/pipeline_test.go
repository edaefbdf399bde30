package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bjulian5/prdash/internal/gh"
	"github.com/bjulian5/prdash/internal/model"
)

func newNormalizer(t *testing.T) *model.Normalizer {
	extractor, err := model.NewWorkItemExtractor("", "")
	require.NoError(t, err)
	return model.NewNormalizer(extractor)
}

func sampleItems() []gh.RawItem {
	return []gh.RawItem{
		{"number": float64(3), "title": "Ab#1000003 three", "created_at": "2024-01-03T00:00:00Z"},
		{"number": float64(2), "title": "broken"},
		{"number": float64(1), "title": "one", "created_at": "2024-01-01T00:00:00Z", "merged_at": "2024-01-02T00:00:00Z"},
		{"number": float64(0), "title": "zero", "created_at": "2023-12-31T00:00:00Z", "closed_at": "2024-01-01T00:00:00Z"},
	}
}

// transitionLog collects observer callbacks
type transitionLog struct {
	mu    sync.Mutex
	steps []string
}

func (l *transitionLog) observe(_ string, from, to State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.steps = append(l.steps, fmt.Sprintf("%s->%s", from, to))
}

func TestRunner_Success(t *testing.T) {
	fetcher := &MockFetcher{}
	bearer := gh.NewHeaders("abc", "").WithScheme(gh.SchemeBearer)
	status := &gh.RateLimitStatus{Remaining: 4999, Limit: 5000}

	fetcher.On("Authenticate", mock.Anything, mock.MatchedBy(func(h gh.Headers) bool {
		return h.Authorization() == "token abc"
	})).Return(bearer, status, nil)
	fetcher.On("ListPullRequests", mock.Anything, mock.MatchedBy(func(h gh.Headers) bool {
		return h.Authorization() == "Bearer abc"
	}), "octo", "repo").Return(sampleItems(), nil)

	log := &transitionLog{}
	runner := NewRunner(fetcher, newNormalizer(t), WithObserver(log.observe))

	result, err := runner.Run(context.Background(), Request{Owner: "octo", Repo: "repo", Token: " abc "})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, gh.SchemeBearer, result.Scheme)
	assert.Equal(t, status, result.RateLimit)
	assert.Equal(t, 4, result.RawCount)
	assert.False(t, result.Empty())
	assert.False(t, result.FromCache)

	require.Len(t, result.Records, 3)
	assert.Equal(t, []int{3, 1, 0}, []int{result.Records[0].Number, result.Records[1].Number, result.Records[2].Number})
	assert.Equal(t, "1000003", result.Records[0].WorkItem)
	assert.Equal(t, model.StatusMerged, result.Records[1].Status)
	assert.Equal(t, model.StatusClosed, result.Records[2].Status)

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, 2, result.Diagnostics[0].Number)

	assert.Equal(t, []State{StateIdle, StateAuthenticating, StateRetrieving, StateNormalizing, StateDone}, result.States)
	assert.Equal(t, []string{
		"idle->authenticating",
		"authenticating->retrieving",
		"retrieving->normalizing",
		"normalizing->done",
	}, log.steps)

	fetcher.AssertExpectations(t)
}

func TestRunner_AuthenticationFailureStopsBeforeRetrieval(t *testing.T) {
	fetcher := &MockFetcher{}
	authErr := &gh.APIError{Kind: gh.KindAuthentication, Message: "token rejected"}
	fetcher.On("Authenticate", mock.Anything, mock.Anything).Return(gh.Headers{}, nil, authErr)

	log := &transitionLog{}
	runner := NewRunner(fetcher, newNormalizer(t), WithObserver(log.observe))

	result, err := runner.Run(context.Background(), Request{Owner: "octo", Repo: "repo", Token: "bad"})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, gh.ErrAuthentication)

	fetcher.AssertNotCalled(t, "ListPullRequests", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, []string{"idle->authenticating", "authenticating->failed"}, log.steps)
}

func TestRunner_RetrievalFailure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expectIs error
	}{
		{name: "rate limited", err: &gh.APIError{Kind: gh.KindRateLimited}, expectIs: gh.ErrRateLimited},
		{name: "forbidden", err: &gh.APIError{Kind: gh.KindForbidden}, expectIs: gh.ErrForbidden},
		{name: "not found", err: &gh.APIError{Kind: gh.KindNotFound}, expectIs: gh.ErrNotFound},
		{name: "malformed", err: &gh.APIError{Kind: gh.KindMalformed}, expectIs: gh.ErrMalformed},
		{name: "transient exhausted", err: &gh.APIError{Kind: gh.KindTransient}, expectIs: gh.ErrTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &MockFetcher{}
			fetcher.On("Authenticate", mock.Anything, mock.Anything).Return(gh.NewHeaders("", ""), nil, nil)
			fetcher.On("ListPullRequests", mock.Anything, mock.Anything, "octo", "repo").Return(nil, tt.err)

			log := &transitionLog{}
			runner := NewRunner(fetcher, newNormalizer(t), WithObserver(log.observe))

			result, err := runner.Run(context.Background(), Request{Owner: "octo", Repo: "repo"})
			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.expectIs)
			assert.Contains(t, err.Error(), "octo/repo")
			assert.Equal(t, "retrieving->failed", log.steps[len(log.steps)-1])
		})
	}
}

func TestRunner_EmptyResultIsNotAnError(t *testing.T) {
	fetcher := &MockFetcher{}
	fetcher.On("Authenticate", mock.Anything, mock.Anything).Return(gh.NewHeaders("", ""), nil, nil)
	fetcher.On("ListPullRequests", mock.Anything, mock.Anything, "octo", "empty").Return([]gh.RawItem{}, nil)

	runner := NewRunner(fetcher, newNormalizer(t))

	result, err := runner.Run(context.Background(), Request{Owner: "octo", Repo: "empty"})
	require.NoError(t, err)
	assert.True(t, result.Empty())
	assert.Empty(t, result.Records)
	assert.Empty(t, result.Diagnostics)
	assert.Nil(t, result.RateLimit)
	assert.Equal(t, gh.SchemeNone, result.Scheme)
	assert.Equal(t, StateDone, result.States[len(result.States)-1])
}

func TestRunner_AllItemsFailingStillSucceeds(t *testing.T) {
	fetcher := &MockFetcher{}
	fetcher.On("Authenticate", mock.Anything, mock.Anything).Return(gh.NewHeaders("", ""), nil, nil)
	fetcher.On("ListPullRequests", mock.Anything, mock.Anything, "octo", "repo").Return([]gh.RawItem{
		{"number": float64(1)},
		{"number": float64(2), "created_at": "garbage"},
	}, nil)

	result, err := NewRunner(fetcher, newNormalizer(t)).Run(context.Background(), Request{Owner: "octo", Repo: "repo"})
	require.NoError(t, err)
	assert.False(t, result.Empty())
	assert.Empty(t, result.Records)
	assert.Len(t, result.Diagnostics, 2)
}

func TestRunner_CacheServesRepeatRuns(t *testing.T) {
	fetcher := &MockFetcher{}
	fetcher.On("Authenticate", mock.Anything, mock.Anything).Return(gh.NewHeaders("", ""), nil, nil)
	fetcher.On("ListPullRequests", mock.Anything, mock.Anything, "octo", "repo").Return(sampleItems(), nil).Once()

	runner := NewRunner(fetcher, newNormalizer(t), WithCache(NewMemoryCache(DefaultCacheTTL, 8)))

	first, err := runner.Run(context.Background(), Request{Owner: "octo", Repo: "repo"})
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := runner.Run(context.Background(), Request{Owner: "octo", Repo: "repo"})
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Records, second.Records)
	assert.NotEqual(t, first.RunID, second.RunID)

	fetcher.AssertNumberOfCalls(t, "Authenticate", 2)
	fetcher.AssertNumberOfCalls(t, "ListPullRequests", 1)
}

func TestRunner_CacheNeverMasksAuthentication(t *testing.T) {
	fetcher := &MockFetcher{}
	fetcher.On("Authenticate", mock.Anything, mock.Anything).Return(gh.NewHeaders("", ""), nil, nil).Once()
	fetcher.On("Authenticate", mock.Anything, mock.Anything).Return(gh.Headers{}, nil, &gh.APIError{Kind: gh.KindAuthentication}).Once()
	fetcher.On("ListPullRequests", mock.Anything, mock.Anything, "octo", "repo").Return(sampleItems(), nil).Once()

	runner := NewRunner(fetcher, newNormalizer(t), WithCache(NewMemoryCache(DefaultCacheTTL, 8)))

	_, err := runner.Run(context.Background(), Request{Owner: "octo", Repo: "repo"})
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), Request{Owner: "octo", Repo: "repo", Token: "revoked"})
	assert.ErrorIs(t, err, gh.ErrAuthentication)
}

func TestRunner_FailuresAreNotCached(t *testing.T) {
	fetcher := &MockFetcher{}
	fetcher.On("Authenticate", mock.Anything, mock.Anything).Return(gh.NewHeaders("", ""), nil, nil)
	fetcher.On("ListPullRequests", mock.Anything, mock.Anything, "octo", "repo").Return(nil, &gh.APIError{Kind: gh.KindTransient}).Once()
	fetcher.On("ListPullRequests", mock.Anything, mock.Anything, "octo", "repo").Return(sampleItems(), nil).Once()

	runner := NewRunner(fetcher, newNormalizer(t), WithCache(NewMemoryCache(DefaultCacheTTL, 8)))

	_, err := runner.Run(context.Background(), Request{Owner: "octo", Repo: "repo"})
	require.Error(t, err)

	result, err := runner.Run(context.Background(), Request{Owner: "octo", Repo: "repo"})
	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Len(t, result.Records, 3)
}

// headerRecorder is a Fetcher that records the Authorization each repo was fetched with
type headerRecorder struct {
	mu   sync.Mutex
	seen map[string]string
}

func (f *headerRecorder) Authenticate(_ context.Context, h gh.Headers) (gh.Headers, *gh.RateLimitStatus, error) {
	// odd-length tokens only work as Bearer, so runs switch schemes independently
	if len(h.Authorization())%2 == 1 {
		return h.WithScheme(gh.SchemeBearer), nil, nil
	}
	return h, nil, nil
}

func (f *headerRecorder) ListPullRequests(_ context.Context, h gh.Headers, owner, repoName string) ([]gh.RawItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen[owner+"/"+repoName] = h.Authorization()
	return nil, nil
}

func TestRunner_ConcurrentRunsOwnTheirHeaders(t *testing.T) {
	fetcher := &headerRecorder{seen: map[string]string{}}
	runner := NewRunner(fetcher, newNormalizer(t))

	tokens := []string{"a", "bb", "ccc", "dddd", "eeeee", "ffffff"}
	var wg sync.WaitGroup
	errs := make([]error, len(tokens))
	for i, token := range tokens {
		wg.Add(1)
		go func(i int, token string) {
			defer wg.Done()
			_, errs[i] = runner.Run(context.Background(), Request{Owner: "octo", Repo: token, Token: token})
		}(i, token)
	}
	wg.Wait()

	for i, token := range tokens {
		require.NoError(t, errs[i])
		expected := gh.NewHeaders(token, "")
		if len(expected.Authorization())%2 == 1 {
			expected = expected.WithScheme(gh.SchemeBearer)
		}
		assert.Equal(t, expected.Authorization(), fetcher.seen["octo/"+token], "token %q", token)
	}
}

func TestRunner_PropagatesContextCancellation(t *testing.T) {
	fetcher := &MockFetcher{}
	fetcher.On("Authenticate", mock.Anything, mock.Anything).Return(gh.Headers{}, nil, context.Canceled)

	_, err := NewRunner(fetcher, newNormalizer(t)).Run(context.Background(), Request{Owner: "o", Repo: "r", Token: "t"})
	assert.True(t, errors.Is(err, context.Canceled))
}
