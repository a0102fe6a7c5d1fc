package graph

import (
	"errors"
	"net/http"
)

// Error types for Microsoft Graph API responses.
var (
	// ErrUnauthorised indicates the access token is invalid or expired.
	ErrUnauthorised = errors.New("graph: unauthorised")

	// ErrForbidden indicates the caller lacks the CloudPC.ReadWrite.All
	// permission for the requested operation.
	ErrForbidden = errors.New("graph: forbidden")

	// ErrNotFound indicates the Cloud PC does not exist on the service side.
	ErrNotFound = errors.New("graph: not found")

	// ErrRateLimited indicates the request was throttled by Microsoft Graph.
	ErrRateLimited = errors.New("graph: rate limited")

	// ErrBadRequest indicates the request was malformed, typically an
	// endGracePeriod call against a device not in grace.
	ErrBadRequest = errors.New("graph: bad request")

	// ErrServerError indicates a server-side error from Microsoft Graph.
	ErrServerError = errors.New("graph: server error")
)

// WrapError converts an HTTP status code to an appropriate error.
func WrapError(statusCode int) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorised
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusBadRequest:
		return ErrBadRequest
	default:
		if statusCode >= 500 {
			return ErrServerError
		}
		return nil
	}
}

// IsUnauthorised checks if the status code indicates an authentication failure.
func IsUnauthorised(statusCode int) bool {
	return statusCode == http.StatusUnauthorized
}

// IsRateLimited checks if the status code indicates rate limiting.
func IsRateLimited(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests
}

// IsNotFound checks if the status code indicates a missing resource.
func IsNotFound(statusCode int) bool {
	return statusCode == http.StatusNotFound
}
