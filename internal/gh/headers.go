package gh

import (
	"net/http"
	"strings"
)

const (
	// DefaultAccept requests the v3 REST representation
	DefaultAccept = "application/vnd.github.v3+json"
	// DefaultUserAgent identifies the tool to the API
	DefaultUserAgent = "PR-Dashboard-App"
)

// AuthScheme selects how a token is placed in the Authorization header
type AuthScheme int

const (
	SchemeNone   AuthScheme = iota // anonymous, no Authorization header
	SchemeToken                    // "token <value>"
	SchemeBearer                   // "Bearer <value>"
)

func (s AuthScheme) String() string {
	switch s {
	case SchemeToken:
		return "token"
	case SchemeBearer:
		return "bearer"
	default:
		return "anonymous"
	}
}

// Headers is the request header set for one pipeline run.
// It is a value: WithScheme returns a copy, so concurrent runs never share state.
type Headers struct {
	token     string
	userAgent string
	scheme    AuthScheme
}

// NewHeaders builds headers from an optional token. A non-empty token starts on SchemeToken.
func NewHeaders(token, userAgent string) Headers {
	token = strings.TrimSpace(token)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	h := Headers{token: token, userAgent: userAgent}
	if token != "" {
		h.scheme = SchemeToken
	}
	return h
}

// HasToken reports whether a credential was supplied
func (h Headers) HasToken() bool {
	return h.token != ""
}

// Scheme returns the active authorization scheme
func (h Headers) Scheme() AuthScheme {
	return h.scheme
}

// WithScheme returns a copy using the given scheme. Without a token the scheme stays SchemeNone.
func (h Headers) WithScheme(scheme AuthScheme) Headers {
	if h.token == "" {
		scheme = SchemeNone
	}
	h.scheme = scheme
	return h
}

// Authorization returns the Authorization header value, or "" for anonymous access
func (h Headers) Authorization() string {
	switch h.scheme {
	case SchemeToken:
		return "token " + h.token
	case SchemeBearer:
		return "Bearer " + h.token
	default:
		return ""
	}
}

// Header materializes a fresh http.Header
func (h Headers) Header() http.Header {
	header := http.Header{}
	header.Set("Accept", DefaultAccept)
	header.Set("User-Agent", h.userAgent)
	if auth := h.Authorization(); auth != "" {
		header.Set("Authorization", auth)
	}
	return header
}

func (h Headers) apply(req *http.Request) {
	for key, values := range h.Header() {
		req.Header[key] = values
	}
}
