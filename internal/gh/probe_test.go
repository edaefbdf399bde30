package gh

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rateOK = `{"resources": {}, "rate": {"limit": 5000, "remaining": 4999, "reset": 1704067200, "used": 1}}`

func TestProbe(t *testing.T) {
	tests := []struct {
		name      string
		step      step
		expectErr bool
	}{
		{name: "accepted", step: step{status: http.StatusOK, body: rateOK}},
		{name: "unauthorized", step: step{status: http.StatusUnauthorized}, expectErr: true},
		{name: "missing rate block", step: step{status: http.StatusOK, body: `{"resources": {}}`}, expectErr: true},
		{name: "missing remaining", step: step{status: http.StatusOK, body: `{"rate": {"limit": 60}}`}, expectErr: true},
		{name: "invalid json", step: step{status: http.StatusOK, body: `nope`}, expectErr: true},
		{name: "request error", step: step{err: errors.New("dial tcp: refused")}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, transport, _ := newTestClient(t, tt.step)

			status, err := client.Probe(context.Background(), NewHeaders("abc", ""))
			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, status)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, &RateLimitStatus{
				Remaining: 4999,
				Limit:     5000,
				Reset:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			}, status)
			assert.Equal(t, "/rate_limit", transport.requests[0].URL.Path)
		})
	}
}

func TestAuthenticate_NoToken(t *testing.T) {
	client, transport, _ := newTestClient(t)

	headers, status, err := client.Authenticate(context.Background(), NewHeaders("   ", ""))
	require.NoError(t, err)
	assert.Nil(t, status)
	assert.Equal(t, SchemeNone, headers.Scheme())
	assert.Equal(t, 0, transport.count(), "anonymous runs skip probing")
}

func TestAuthenticate_TokenSchemeAccepted(t *testing.T) {
	client, transport, _ := newTestClient(t, step{status: http.StatusOK, body: rateOK})

	headers, status, err := client.Authenticate(context.Background(), NewHeaders("abc", ""))
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, 4999, status.Remaining)
	assert.Equal(t, SchemeToken, headers.Scheme())

	require.Equal(t, 1, transport.count())
	assert.Equal(t, "token abc", transport.requests[0].Header.Get("Authorization"))
}

func TestAuthenticate_FallsBackToBearer(t *testing.T) {
	client, transport, _ := newTestClient(t,
		step{status: http.StatusUnauthorized},
		step{status: http.StatusOK, body: rateOK},
	)

	original := NewHeaders("abc", "")
	headers, status, err := client.Authenticate(context.Background(), original)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, SchemeBearer, headers.Scheme())
	assert.Equal(t, "Bearer abc", headers.Authorization())
	assert.Equal(t, SchemeToken, original.Scheme(), "the caller's headers are never mutated")

	require.Equal(t, 2, transport.count())
	assert.Equal(t, "token abc", transport.requests[0].Header.Get("Authorization"))
	assert.Equal(t, "Bearer abc", transport.requests[1].Header.Get("Authorization"))
}

func TestAuthenticate_BothSchemesRejected(t *testing.T) {
	client, transport, _ := newTestClient(t,
		step{status: http.StatusUnauthorized},
		step{err: errors.New("connection reset")},
	)

	_, status, err := client.Authenticate(context.Background(), NewHeaders("abc", ""))
	require.Error(t, err)
	assert.Nil(t, status)
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.Equal(t, 2, transport.count(), "bearer is tried exactly once")
}
