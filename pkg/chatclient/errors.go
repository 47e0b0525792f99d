package chatclient

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies a failure for retry/recovery decisions. Transport
// and store failures are reclassified here so callers never see raw
// *url.Error or HTTP plumbing.
type Kind int

const (
	// KindValidation: rejected input (empty body, missing participant).
	// Recovered locally, never retried.
	KindValidation Kind = iota
	// KindAuthRequired: missing/expired/invalid credential. Requires
	// re-authentication, not retry.
	KindAuthRequired
	// KindConnectivity: timeout, offline, unreachable server. Retryable.
	KindConnectivity
	// KindStorage: server-side 5xx. Retryable, but not indefinitely.
	KindStorage
	// KindNotFound: room/participant resolution failure. Not retryable.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthRequired:
		return "auth_required"
	case KindConnectivity:
		return "connectivity"
	case KindStorage:
		return "storage"
	case KindNotFound:
		return "not_found"
	}
	return "unknown"
}

// Error is a classified client failure.
type Error struct {
	Kind    Kind
	Status  int // HTTP status, 0 for transport failures
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is worth an automatic retry.
func (e *Error) Retryable() bool {
	return e.Kind == KindConnectivity || e.Kind == KindStorage
}

// KindOf extracts the classification from an error, defaulting to
// KindConnectivity for unclassified failures (safe to retry).
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindConnectivity
}

func classifyStatus(status int, message string) *Error {
	kind := KindStorage
	switch {
	case status == 400:
		kind = KindValidation
	case status == 401 || status == 403:
		kind = KindAuthRequired
	case status == 404:
		kind = KindNotFound
	case status == 429:
		// Back off like a connectivity blip; the window clears itself.
		kind = KindConnectivity
	}
	return &Error{Kind: kind, Status: status, Message: message}
}

func classifyTransport(err error) *Error {
	// Timeouts and cancellations are connectivity failures, distinct
	// from a server-returned error status.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Kind: KindConnectivity, Message: "request timed out", Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindConnectivity, Message: "request timed out", Err: err}
	}
	return &Error{Kind: KindConnectivity, Message: "server unreachable", Err: err}
}
