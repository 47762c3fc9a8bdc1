package overseerr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidURL means the base, path and query could not form a valid URL.
	ErrInvalidURL = errors.New("invalid url")

	// ErrDecodingFailed means a successful response did not match the expected shape.
	ErrDecodingFailed = errors.New("decoding failed")

	// ErrUnknown means the transport produced no usable response.
	ErrUnknown = errors.New("unknown network error")

	// ErrInvalidOperation means a request was rejected locally before any I/O.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrNotImplemented marks operations the client does not support yet.
	ErrNotImplemented = errors.New("not implemented")
)

// RequestFailedError reports a response status outside 200-299.
type RequestFailedError struct {
	StatusCode int
	Method     string
	Path       string
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.StatusCode)
}

// IsAuthFailure reports whether the status is 401 or 403.
func (e *RequestFailedError) IsAuthFailure() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// StatusCode extracts the HTTP status from a RequestFailedError anywhere in err's chain.
func StatusCode(err error) (int, bool) {
	var rf *RequestFailedError
	if errors.As(err, &rf) {
		return rf.StatusCode, true
	}
	return 0, false
}

// IsAuthFailure reports whether err is a 401/403 RequestFailedError.
func IsAuthFailure(err error) bool {
	var rf *RequestFailedError
	return errors.As(err, &rf) && rf.IsAuthFailure()
}
