package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
)

// Error is a transport-level failure: the request never produced an HTTP response.
type Error struct {
	Code    string
	Message string
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Detail == "" {
		return e.Message
	}
	return e.Message + ": " + e.Detail
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ResponseError is a non-2xx HTTP response. The proxied A1 adapter builds the
// same type from the status embedded in an adapter envelope, so callers see one
// shape for both.
type ResponseError struct {
	StatusCode   int
	ReasonPhrase string
	Body         string
}

// NewResponseError returns a ResponseError carrying the standard reason phrase for code.
func NewResponseError(code int, body string) *ResponseError {
	return &ResponseError{StatusCode: code, ReasonPhrase: http.StatusText(code), Body: body}
}

func (e *ResponseError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("%d %s", e.StatusCode, e.ReasonPhrase)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// StatusCode extracts the HTTP status from err, if err wraps a ResponseError.
func StatusCode(err error) (int, bool) {
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode, true
	}
	return 0, false
}

// IsSuccess reports whether code is in the 2xx range.
func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}

func classifyRequestError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return &Error{Code: "canceled", Message: "request canceled", Detail: err.Error(), Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Code: "timeout", Message: "request timed out", Detail: err.Error(), Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Code: "timeout", Message: "request timed out", Detail: err.Error(), Err: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if errors.Is(urlErr.Err, context.DeadlineExceeded) {
			return &Error{Code: "timeout", Message: "request timed out", Detail: err.Error(), Err: err}
		}
	}

	return &Error{Code: "unreachable", Message: "remote unreachable", Detail: err.Error(), Err: err}
}
