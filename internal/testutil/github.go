package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// GitHubServer is an in-process stand-in for the GitHub REST API
type GitHubServer struct {
	*httptest.Server

	mu       sync.Mutex
	pulls    map[string][]map[string]any // "owner/repo" -> items
	statuses map[string]int              // "owner/repo" -> forced status
	token    string                      // accepted only with the Bearer scheme when set
	requests map[string]int              // path -> count
}

// NewGitHubServer starts a fake API and points prdash configuration at it.
// The test also runs from an empty directory so no .env file is picked up.
func NewGitHubServer(t *testing.T) *GitHubServer {
	t.Helper()

	s := &GitHubServer{
		pulls:    map[string][]map[string]any{},
		statuses: map[string]int{},
		requests: map[string]int{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)

	t.Chdir(t.TempDir())
	t.Setenv("PRDASH_GITHUB_API_URL", s.URL)
	t.Setenv("PRDASH_GITHUB_BACKOFF_UNIT", "1ms")
	t.Setenv("PRDASH_GITHUB_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("PRDASH_LOGGING_LEVEL", "error")
	return s
}

// AddPulls registers the list response for owner/repo
func (s *GitHubServer) AddPulls(repo string, items ...map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pulls[repo] = append(s.pulls[repo], items...)
}

// FailWith makes every pulls request for owner/repo answer with status
func (s *GitHubServer) FailWith(repo string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[repo] = status
}

// RequireBearer makes the rate limit endpoint accept only "Bearer <token>"
func (s *GitHubServer) RequireBearer(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Requests returns how often path was requested
func (s *GitHubServer) Requests(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[path]
}

func (s *GitHubServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[r.URL.Path]++

	if r.URL.Path == "/rate_limit" {
		if s.token != "" && r.Header.Get("Authorization") != "Bearer "+s.token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, map[string]any{"rate": map[string]any{"remaining": 4999, "limit": 5000, "reset": 1700000000}})
		return
	}

	repo, ok := strings.CutPrefix(r.URL.Path, "/repos/")
	if !ok || !strings.HasSuffix(repo, "/pulls") {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	repo = strings.TrimSuffix(repo, "/pulls")

	if status, ok := s.statuses[repo]; ok {
		if status == http.StatusForbidden {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", "1700000000")
		}
		w.WriteHeader(status)
		return
	}

	items, ok := s.pulls[repo]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if items == nil {
		items = []map[string]any{}
	}
	writeJSON(w, items)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// PR builds a raw pull request item
func PR(number int, title, author, createdAt string, opts ...func(map[string]any)) map[string]any {
	item := map[string]any{
		"number":     number,
		"title":      title,
		"created_at": createdAt,
		"merged_at":  nil,
		"closed_at":  nil,
		"html_url":   "https://github.com/octo/repo/pull/" + strconv.Itoa(number),
		"user":       map[string]any{"login": author},
	}
	for _, opt := range opts {
		opt(item)
	}
	return item
}

// Merged marks an item merged (and closed) at ts
func Merged(ts string) func(map[string]any) {
	return func(item map[string]any) {
		item["merged_at"] = ts
		item["closed_at"] = ts
	}
}

// Closed marks an item closed without merging at ts
func Closed(ts string) func(map[string]any) {
	return func(item map[string]any) {
		item["closed_at"] = ts
	}
}

// Body sets the description
func Body(body string) func(map[string]any) {
	return func(item map[string]any) {
		item["body"] = body
	}
}

// Size sets additions and deletions
func Size(additions, deletions int) func(map[string]any) {
	return func(item map[string]any) {
		item["additions"] = additions
		item["deletions"] = deletions
	}
}

// Broken removes created_at so the item fails normalization
func Broken() func(map[string]any) {
	return func(item map[string]any) {
		delete(item, "created_at")
	}
}
