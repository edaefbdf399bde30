package gh

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// step is one canned outcome of a round trip
type step struct {
	status int
	header map[string]string
	body   string
	err    error
}

// scriptedTransport replays steps in order and records every request
type scriptedTransport struct {
	t        *testing.T
	mu       sync.Mutex
	steps    []step
	requests []*http.Request
}

func (s *scriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := len(s.requests)
	s.requests = append(s.requests, req)
	if i >= len(s.steps) {
		s.t.Fatalf("unexpected request #%d to %s", i+1, req.URL)
	}

	st := s.steps[i]
	if st.err != nil {
		return nil, st.err
	}

	header := http.Header{}
	for k, v := range st.header {
		header.Set(k, v)
	}
	return &http.Response{
		StatusCode: st.status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(st.body)),
		Request:    req,
	}, nil
}

func (s *scriptedTransport) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// recordingTimer fires immediately and remembers every requested delay
type recordingTimer struct {
	delays []time.Duration
	c      chan time.Time
}

func newRecordingTimer() *recordingTimer {
	return &recordingTimer{c: make(chan time.Time, 1)}
}

func (r *recordingTimer) Start(d time.Duration) {
	r.delays = append(r.delays, d)
	r.c <- time.Time{}
}

func (r *recordingTimer) Stop() {}

func (r *recordingTimer) C() <-chan time.Time {
	return r.c
}

// timeoutError mimics a net.Error timeout
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func newTestClient(t *testing.T, steps ...step) (*Client, *scriptedTransport, *recordingTimer) {
	transport := &scriptedTransport{t: t, steps: steps}
	timer := newRecordingTimer()

	client := NewClient(Options{
		BaseURL:    "https://api.github.test",
		HTTPClient: &http.Client{Transport: transport},
	})
	client.newTimer = func() backoff.Timer { return timer }

	return client, transport, timer
}
