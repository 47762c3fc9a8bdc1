package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/five82/usher/internal/overseerr"
)

// Message turns an error into text fit for an error panel.
func Message(err error) string {
	var reqErr *overseerr.RequestFailedError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &reqErr):
		if reqErr.IsAuthFailure() {
			return "Not authorized. Please sign in again."
		}
		return fmt.Sprintf("Server returned %d.", reqErr.StatusCode)
	case errors.Is(err, overseerr.ErrNotImplemented):
		return "This feature is not available yet."
	case errors.Is(err, overseerr.ErrInvalidOperation):
		return "That action is not allowed."
	case errors.Is(err, overseerr.ErrDecodingFailed):
		return "Unexpected response from the server."
	case errors.Is(err, overseerr.ErrInvalidURL):
		return "The server URL is invalid."
	case errors.Is(err, context.Canceled):
		return "The operation was cancelled."
	case errors.Is(err, context.DeadlineExceeded):
		return "The server took too long to respond."
	case errors.Is(err, overseerr.ErrUnknown):
		return "Could not reach the server."
	default:
		return err.Error()
	}
}
