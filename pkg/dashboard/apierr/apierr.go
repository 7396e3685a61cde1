// Package apierr defines the error taxonomy for the dashboard API.
//
// Every failed request surfaces as exactly one *Error. Callers branch on
// Kind (or use IsKind / errors.As), never on message text.
package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Kind classifies a dashboard API failure.
type Kind int

const (
	// Transport means no usable response was obtained at all: connection
	// refused, DNS failure, timeout.
	Transport Kind = iota
	// Validation is a 400 response (bad batch, bad period, bad input).
	Validation
	// Auth is a 403 response (missing or wrong write key).
	Auth
	// NotFound is a 404 response.
	NotFound
	// RateLimit is a 429 response, optionally carrying a Retry-After hint.
	RateLimit
	// Server is any 5xx response.
	Server
	// Generic covers every other non-2xx status, and 2xx responses whose
	// body could not be decoded.
	Generic
)

// String returns the kind name for logs and error text.
func (k Kind) String() string {
	switch k {
	case Transport:
		return "transport"
	case Validation:
		return "validation"
	case Auth:
		return "auth"
	case NotFound:
		return "not found"
	case RateLimit:
		return "rate limit"
	case Server:
		return "server"
	default:
		return "error"
	}
}

// Error is the single error type returned for any failed dashboard call.
type Error struct {
	Kind    Kind
	Message string

	// Status is the HTTP status code, or 0 for Transport errors.
	Status int

	// Body is the decoded JSON response body when the server sent valid
	// JSON, the raw body string otherwise, or nil when the body was empty.
	Body any

	// RetryAfter is the server's Retry-After hint on RateLimit errors.
	// Zero when the header was absent or not numeric.
	RetryAfter time.Duration

	err error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("dashboard: %s (HTTP %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("dashboard: %s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause of Transport errors.
func (e *Error) Unwrap() error { return e.err }

// NewTransport wraps a connectivity failure.
func NewTransport(err error) *Error {
	return &Error{Kind: Transport, Message: err.Error(), err: err}
}

// IsKind reports whether err is (or wraps) a dashboard *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// FromResponse maps a non-2xx response to an *Error.
//
// The body is JSON-decoded when possible; the message is taken from the
// body's "error" field, falling back to the raw text, falling back to
// "HTTP <code>". A numeric Retry-After header on 429 responses is parsed
// as floating-point seconds.
func FromResponse(status int, header http.Header, raw []byte) *Error {
	var body any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			body = string(raw)
		}
	}

	msg := fmt.Sprintf("HTTP %d", status)
	if obj, ok := body.(map[string]any); ok {
		if s, ok := obj["error"].(string); ok {
			msg = s
		} else if len(raw) > 0 {
			msg = string(raw)
		}
	} else if len(raw) > 0 {
		msg = string(raw)
	}

	e := &Error{Kind: kindForStatus(status), Message: msg, Status: status, Body: body}
	if e.Kind == RateLimit {
		if ra := header.Get("Retry-After"); ra != "" {
			if secs, err := strconv.ParseFloat(ra, 64); err == nil {
				e.RetryAfter = time.Duration(secs * float64(time.Second))
			}
		}
	}
	return e
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusBadRequest:
		return Validation
	case status == http.StatusForbidden:
		return Auth
	case status == http.StatusNotFound:
		return NotFound
	case status == http.StatusTooManyRequests:
		return RateLimit
	case status >= 500:
		return Server
	default:
		return Generic
	}
}
