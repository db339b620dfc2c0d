package client

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"
)

// Kind classifies a client failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindNetwork covers DNS failures, refused connections, timeouts and cancellation.
	KindNetwork
	// KindHTTPStatus means the server answered with a non-2xx status.
	KindHTTPStatus
	// KindDecode means a response or input document is not a JSON object.
	KindDecode
	// KindInputNotFound means the local input file is missing or unreadable.
	KindInputNotFound
	// KindInvalidInput means the request could not be built from the arguments.
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTPStatus:
		return "http status"
	case KindDecode:
		return "decode"
	case KindInputNotFound:
		return "input not found"
	case KindInvalidInput:
		return "invalid input"
	}
	return "unknown"
}

// snippetSize limits how much of a response body appears in Error().
const snippetSize = 512

// Error is the structured failure returned by every Client operation.
type Error struct {
	Kind       Kind
	StatusCode int    // set for KindHTTPStatus
	Body       string // full response body for KindHTTPStatus
	Path       string // input file for KindInputNotFound and file decode errors
	Detail     string
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		if e.Body == "" {
			return fmt.Sprintf("http status %d", e.StatusCode)
		}
		return fmt.Sprintf("http status %d: %s", e.StatusCode, Snippet(e.Body))
	case KindInputNotFound:
		return fmt.Sprintf("input file %q not found or unreadable: %v", e.Path, e.Err)
	}

	msg := e.Kind.String()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Snippet shortens a response body for display, cutting on a rune boundary.
func Snippet(body string) string {
	if len(body) <= snippetSize {
		return body
	}
	cut := snippetSize
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + "..."
}

// KindOf returns the Kind of err, or KindUnknown if err is not a client Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindHTTPStatus {
		return e.StatusCode
	}
	return 0
}

// IsNotFound returns true if the server answered 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsAuthError returns true if the server rejected the API key (401 or 403).
func IsAuthError(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}
