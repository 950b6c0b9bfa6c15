package domain

import "errors"

// Failure kinds surfaced by report generation. Each stage of the workflow
// wraps its cause with exactly one of these so callers can classify with
// errors.Is without inspecting driver or transport errors.
var (
	// ErrNoData: no measurements in the lookback window, or measurements
	// that aggregate to nothing.
	ErrNoData = errors.New("no data")

	// ErrGenerationUnavailable: the generation API could not be reached or
	// answered with a non-success status.
	ErrGenerationUnavailable = errors.New("generation unavailable")

	// ErrMalformedResponse: the generation API answered successfully but the
	// payload could not be parsed into report fields.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrPersistenceFailure: the finished report could not be stored.
	ErrPersistenceFailure = errors.New("persistence failure")
)

// ErrNotFound is returned by store reads when no document matches.
var ErrNotFound = errors.New("not found")
