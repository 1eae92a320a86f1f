package nrng

import (
	"errors"
	"fmt"
)

// Errors returned by the generator.
var (
	ErrNoSources        = errors.New("at least one entropy source must be configured")
	ErrNilSource        = errors.New("entropy source must not be nil")
	ErrDuplicateSource  = errors.New("entropy source registered twice")
	ErrInvalidBitSize   = errors.New("bit size must be greater than zero")
	ErrInvalidPrecision = errors.New("precision must be at least 2 bits")
	ErrInvalidRange     = errors.New("lower bound must not exceed upper bound")
	ErrSourceExhausted  = errors.New("entropy source exhausted")
)

// SourceExhaustedError reports a source whose min-entropy estimate stayed at
// zero for the full retry budget of a draw. It is terminal for that draw: the
// physical source is degenerate and must be replaced by the operator.
type SourceExhaustedError struct {
	Source   *Source
	Attempts int
}

func (e *SourceExhaustedError) Error() string {
	return fmt.Sprintf("entropy source %s exhausted: min-entropy estimate was zero for %d consecutive samples", e.Source, e.Attempts)
}

func (e *SourceExhaustedError) Unwrap() error {
	return ErrSourceExhausted
}
