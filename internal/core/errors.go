package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoInput is returned when an upload carries no data at all.
	ErrNoInput = errors.New("no input supplied")

	// ErrInvalidAmount marks a total_price value that is not a
	// non-negative decimal amount.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidQuantity marks a quantity value that is not a positive
	// integer.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidDerivedField marks a derived calendar field outside its
	// documented range.
	ErrInvalidDerivedField = errors.New("derived field out of range")
)

// SchemaError reports required columns missing from an upload header.
// It aborts ingestion before any row is processed.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// ParseError reports a malformed field or row. Ingestion and
// normalization are fail-fast: the first ParseError aborts the whole
// input, no rows are skipped or partially processed. Column and Value
// are empty for structural row errors (wrong field count, unterminated
// quote), where no single field is at fault.
type ParseError struct {
	Row    int // zero-based data row index, header excluded
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d, column %q: cannot parse %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
