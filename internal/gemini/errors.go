package gemini

import (
	"context"
	"errors"
	"net"
	"net/http"

	"google.golang.org/genai"
)

// Kind classifies why a completion call failed.
type Kind string

const (
	KindAuth           Kind = "auth"
	KindQuota          Kind = "quota"
	KindInvalidRequest Kind = "invalid_request"
	KindProvider       Kind = "provider"
	KindNetwork        Kind = "network"
	KindBlocked        Kind = "blocked"
	KindEmpty          Kind = "empty"
	KindCanceled       Kind = "canceled"
)

// Error is the failure side of every Client call. Detail is the provider's
// description, surfaced to API callers unchanged.
type Error struct {
	Kind   Kind
	Code   int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return e.Detail
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retriable reports whether the provider signalled a transient server fault.
func (e *Error) Retriable() bool {
	return e.Kind == KindProvider && (e.Code == http.StatusInternalServerError || e.Code == http.StatusServiceUnavailable)
}

// AsError returns err as an *Error when it is (or wraps) one.
func AsError(err error) (*Error, bool) {
	var gErr *Error
	if errors.As(err, &gErr) {
		return gErr, true
	}
	return nil, false
}

// classify converts an SDK or transport error into an *Error.
func classify(err error) *Error {
	if gErr, ok := AsError(err); ok {
		return gErr
	}

	out := &Error{Kind: KindProvider, Detail: err.Error(), Err: err}

	if code, ok := apiErrorCode(err); ok {
		out.Code = code
		switch {
		case code == http.StatusUnauthorized || code == http.StatusForbidden:
			out.Kind = KindAuth
		case code == http.StatusTooManyRequests:
			out.Kind = KindQuota
		case code >= 400 && code < 500:
			out.Kind = KindInvalidRequest
		default:
			out.Kind = KindProvider
		}
		return out
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		out.Kind = KindCanceled
	case errors.As(err, &netErr):
		out.Kind = KindNetwork
	}
	return out
}

func apiErrorCode(err error) (int, bool) {
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch apiErr := any(e).(type) {
		case genai.APIError:
			return apiErr.Code, true
		case *genai.APIError:
			if apiErr != nil {
				return apiErr.Code, true
			}
		}
	}
	return 0, false
}
