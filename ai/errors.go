package ai

import "errors"

// Sentinel errors for text generation.
var (
	// ErrDisabled is returned when the client was built without an API key.
	ErrDisabled = errors.New("ai: text generation disabled")

	// ErrEmptyCompletion is returned when the provider answers without
	// any choices.
	ErrEmptyCompletion = errors.New("ai: empty completion")
)
