package domain

import "errors"

// Domain errors.
var (
	// ErrConnection indicates token acquisition or sign-in failed before any
	// Graph call could be made.
	ErrConnection = errors.New("could not acquire an access token")

	// ErrRequest indicates a Graph request failed at the HTTP level.
	// The wrapped chain carries the specific status sentinel.
	ErrRequest = errors.New("graph request failed")

	// ErrNotFound indicates no Cloud PC with the given ID is held locally.
	ErrNotFound = errors.New("cloud pc not found")

	// ErrNotInGracePeriod indicates a deprovision was requested for a device
	// that is not in its grace period.
	ErrNotInGracePeriod = errors.New("cloud pc is not in grace period")

	// ErrNoCredentials indicates no sign-in profile has been configured yet.
	ErrNoCredentials = errors.New("no credentials configured, run 'cloudpcctl auth login'")
)
