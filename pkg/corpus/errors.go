package corpus

import (
	"errors"
	"fmt"
)

var (
	// ErrNoResults means the corpus reported zero hits. It is an outcome, not a failure.
	ErrNoResults = errors.New("no results found")

	ErrParse   = errors.New("unexpected page markup")
	ErrNoTable = fmt.Errorf("%w: results table not found", ErrParse)
	ErrNoCount = fmt.Errorf("%w: total count not found", ErrParse)

	ErrInvalidQuery = errors.New("invalid query")
	ErrDisallowed   = errors.New("endpoint disallowed by robots.txt")
)

// TransportError wraps a failure to obtain a page from the endpoint.
type TransportError struct {
	Page int
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetch page %d: %v", e.Page, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// PartialError is returned together with the hits collected before a page
// after the first one failed.
type PartialError struct {
	Page      int
	Collected int
	Err       error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("page %d failed after %d hits: %v", e.Page, e.Collected, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }
