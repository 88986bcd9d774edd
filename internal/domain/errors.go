package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing place.
	ErrNotFound = errors.New("not found")
	// ErrValidation signals a malformed request parameter.
	ErrValidation = errors.New("invalid parameter")
	// ErrMissingSearchTerm signals orderby=relevance without a search term.
	ErrMissingSearchTerm = errors.New("no search term defined")
	// ErrMissingIncludeList signals orderby=include without an include list.
	ErrMissingIncludeList = errors.New("orderby include requires include")
	// ErrPageOutOfRange signals a page number beyond the last page.
	ErrPageOutOfRange = errors.New("page number out of range")
)

// ValidationError wraps ErrValidation with the offending parameter.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Param, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error for a single parameter.
func NewValidationError(param, reason string) error {
	return &ValidationError{Param: param, Reason: reason}
}

// PageOutOfRangeError wraps ErrPageOutOfRange with the paging numbers involved.
type PageOutOfRangeError struct {
	Page       int
	TotalPages int
}

func (e *PageOutOfRangeError) Error() string {
	return fmt.Sprintf("%s: page %d of %d", ErrPageOutOfRange.Error(), e.Page, e.TotalPages)
}

func (e *PageOutOfRangeError) Unwrap() error { return ErrPageOutOfRange }
