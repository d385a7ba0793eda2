package lookup

import "errors"

var (
	// ErrNameNotFound means the upstream answered NXDOMAIN: the name does
	// not exist.
	ErrNameNotFound = errors.New("name not found")

	// ErrServerFailure means the upstream answered with an error code other
	// than NXDOMAIN (SERVFAIL, REFUSED, ...).
	ErrServerFailure = errors.New("upstream server failure")

	// ErrNoUpstream means the service was constructed without an upstream
	// client.
	ErrNoUpstream = errors.New("upstream client is required")
)
