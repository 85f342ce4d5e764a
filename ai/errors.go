package ai

import "errors"

var (
	// ErrProvider indicates the embedding backend is unreachable, returned
	// a non-success status, or produced a response that cannot be parsed
	// into the expected vectors. Callers abort the current operation;
	// retries, if desired, belong to the caller.
	ErrProvider = errors.New("embedding provider error")

	// ErrConfigInvalid indicates an unusable provider configuration.
	ErrConfigInvalid = errors.New("invalid ai configuration")

	// ErrTokenSourceRequired is returned when a token source is not provided.
	ErrTokenSourceRequired = errors.New("token source required")
)
