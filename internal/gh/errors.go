package gh

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorKind classifies a pipeline-level failure
type ErrorKind string

const (
	KindAuthentication ErrorKind = "AUTHENTICATION_FAILURE"
	KindRateLimited    ErrorKind = "RATE_LIMIT_EXCEEDED"
	KindForbidden      ErrorKind = "ACCESS_FORBIDDEN"
	KindNotFound       ErrorKind = "REPOSITORY_NOT_FOUND"
	KindMalformed      ErrorKind = "MALFORMED_RESPONSE"
	KindTransient      ErrorKind = "TRANSIENT_NETWORK_ERROR"
)

// APIError is a typed failure from the probe or the retrieval engine.
// errors.Is matches on Kind, so callers compare against the sentinels below.
type APIError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int       // 0 when no response was received
	ResetAt    time.Time // set for KindRateLimited when the reset header was present
	Hints      []string  // actionable explanations for the user
	Err        error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.ToLower(strings.ReplaceAll(string(e.Kind), "_", " "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is(err, gh.ErrNotFound) style checks
func (e *APIError) Is(target error) bool {
	if t, ok := target.(*APIError); ok {
		return e.Kind == t.Kind
	}
	return false
}

var (
	ErrAuthentication = &APIError{Kind: KindAuthentication, Message: "authentication failed"}
	ErrRateLimited    = &APIError{Kind: KindRateLimited, Message: "rate limit exceeded"}
	ErrForbidden      = &APIError{Kind: KindForbidden, Message: "access forbidden"}
	ErrNotFound       = &APIError{Kind: KindNotFound, Message: "repository not found"}
	ErrMalformed      = &APIError{Kind: KindMalformed, Message: "malformed response"}
	ErrTransient      = &APIError{Kind: KindTransient, Message: "transient network error"}
)

// IsRetryable reports whether err is a transient failure worth another attempt
func IsRetryable(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindTransient
}
