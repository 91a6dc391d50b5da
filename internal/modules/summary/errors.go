package summary

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSubject means the request named neither a conflict nor a country.
	ErrMissingSubject = errors.New("conflictId or countryId is required")

	// ErrNotConfigured means no enabled AI provider with an API key exists.
	ErrNotConfigured = errors.New("AI provider is not configured")

	// ErrEmptySummary means the provider answered 2xx but with no usable text.
	ErrEmptySummary = errors.New("empty summary from AI provider")
)

// GenerationError carries the upstream status and raw body of a failed
// provider call so the handler can surface them for debugging.
type GenerationError struct {
	Status int
	Body   string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("AI provider returned status %d", e.Status)
}
