package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrInvalidConfig is returned when the suggester cannot be constructed
	// from the supplied configuration.
	ErrInvalidConfig = errors.New("invalid gemini configuration")

	// ErrInvalidResponse is returned when the model's reply is missing or
	// is not a JSON array of suggestions.
	ErrInvalidResponse = errors.New("invalid response from gemini")

	// ErrContentBlocked is returned when the reply was blocked by safety filters.
	ErrContentBlocked = errors.New("content blocked by gemini safety filters")
)
