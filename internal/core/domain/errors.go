package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicatePosition indicates two images claimed the same position
	// within one document.
	ErrDuplicatePosition = errors.New("duplicate image position")

	// ErrNothingToSave indicates ConfirmSave was called with no preview present.
	ErrNothingToSave = errors.New("nothing to save")

	// ErrSummaryInFlight indicates a summarisation is already running for the
	// document, and the new request was ignored.
	ErrSummaryInFlight = errors.New("summarisation already in flight")

	// ErrGeneratorUnavailable indicates the text-generation service is not
	// configured. Summarisation is disabled without it.
	ErrGeneratorUnavailable = errors.New("text generator unavailable")
)
