package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

var (
	ErrTimeout = errors.New("Request timeout")
)

// HttpError is returned for a non-2xx response. Message is derived from
// the server-provided error or the status line.
type HttpError struct {
	StatusCode int
	Message    string
}

func (e *HttpError) Error() string {
	return e.Message
}

// Retryable reports whether the status signals a transient failure.
func (e *HttpError) Retryable() bool {
	return retryableStatus(e.StatusCode)
}

// NetworkError is returned when no usable response was received:
// connection failures, aborted attempts and unreadable bodies.
type NetworkError struct {
	Err     error
	Timeout bool
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return ErrTimeout.Error()
	}
	if e.Err == nil {
		return "network error"
	}
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return e.Timeout && target == ErrTimeout
}

func retryableStatus(status int) bool {
	return status >= http.StatusInternalServerError ||
		status == http.StatusRequestTimeout ||
		status == http.StatusTooManyRequests
}

func statusLine(status int, reason string) string {
	return fmt.Sprintf("HTTP %d: %s", status, reason)
}

// reasonPhrase returns the reason phrase the server sent with the status
// code, or the standard text when it sent none.
func reasonPhrase(res *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(res.Status, strconv.Itoa(res.StatusCode)))
	if reason == "" {
		reason = http.StatusText(res.StatusCode)
	}
	return reason
}

// newNetworkError wraps a transport error, classifying deadline and
// cancellation errors as timeouts.
func newNetworkError(err error) *NetworkError {
	timeout := errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
	return &NetworkError{Err: err, Timeout: timeout}
}

// UserMessage returns the text to present to a user for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var httpErr *HttpError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusTooManyRequests {
		return "Too many requests. Please try again later."
	}

	return err.Error()
}
