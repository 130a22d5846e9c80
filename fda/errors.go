package fda

import "errors"

// Sentinel errors for upstream retrieval.
var (
	// ErrNotFound is returned when every event query shape comes back
	// empty for the requested drug.
	ErrNotFound = errors.New("fda: no records found for drug")

	// ErrUpstreamUnavailable is returned on transport failures and
	// unexpected provider status codes.
	ErrUpstreamUnavailable = errors.New("fda: upstream unavailable")

	// ErrUpstreamTimeout is returned when a provider call exceeds the
	// per-call deadline.
	ErrUpstreamTimeout = errors.New("fda: upstream timed out")
)
