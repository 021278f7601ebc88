package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned for empty or whitespace-only input
	ErrEmptyInput = errors.New("empty input")
	// ErrNoAction is returned when no BUY or SELL token is present
	ErrNoAction = errors.New("no BUY or SELL action")
	// ErrNoQuantity is returned when no quantity follows the action
	ErrNoQuantity = errors.New("no quantity after action")
	// ErrZeroQuantity is returned when the order quantity is zero
	ErrZeroQuantity = errors.New("quantity must be non-zero")
	// ErrZeroRatio is returned when a ratio block contains a zero entry
	ErrZeroRatio = errors.New("ratio entries must be non-zero")
	// ErrNoPrice is returned when no @price token is present
	ErrNoPrice = errors.New("no @price token")
	// ErrNoSymbol is returned when no symbol pattern matches
	ErrNoSymbol = errors.New("no symbol found")
	// ErrUnknownMonth is returned for a date token with an unrecognized month abbreviation
	ErrUnknownMonth = errors.New("unknown month abbreviation")
	// ErrInvalidDate is returned for a date token naming a day that does not exist
	ErrInvalidDate = errors.New("invalid expiration date")
	// ErrInternal is returned when parsing fails unexpectedly
	ErrInternal = errors.New("internal parser error")
)

// ParseError describes why an input could not be parsed. Err is always one of
// the sentinel errors above.
type ParseError struct {
	Input  string
	Err    error
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("parse trade %q: %v: %s", e.Input, e.Err, e.Detail)
	}
	return fmt.Sprintf("parse trade %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(input string, err error, detail string) *ParseError {
	return &ParseError{Input: input, Err: err, Detail: detail}
}

var reasons = []struct {
	err  error
	code string
}{
	{ErrEmptyInput, "empty_input"},
	{ErrNoAction, "no_action"},
	{ErrNoQuantity, "no_quantity"},
	{ErrZeroQuantity, "zero_quantity"},
	{ErrZeroRatio, "zero_ratio"},
	{ErrNoPrice, "no_price"},
	{ErrNoSymbol, "no_symbol"},
	{ErrUnknownMonth, "unknown_month"},
	{ErrInvalidDate, "invalid_date"},
	{ErrInternal, "internal"},
}

// Reason returns a stable machine-readable code for a parse failure, or an
// empty string for a nil error.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.code
		}
	}
	return "internal"
}
