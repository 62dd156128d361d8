package calendar

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrInvalidMonth is returned when a month is outside the calendar's 1..N range.
	ErrInvalidMonth = errors.New("invalid month")

	// ErrInvalidYear is returned for year zero, or for non-positive years in
	// calendars without a BCE era.
	ErrInvalidYear = errors.New("invalid year")

	// ErrInvalidDay is returned when a day is outside the month.
	ErrInvalidDay = errors.New("invalid day")

	// ErrOutOfRange is returned when a date or day number falls outside the
	// calendar's conversion window.
	ErrOutOfRange = errors.New("out of range")

	// ErrOverflow is returned when a computation would exceed 64-bit integers.
	ErrOverflow = errors.New("integer overflow")
)

// Error describes a failed calendar operation.
// Kind is one of the sentinel errors above and is matched by errors.Is.
type Error struct {
	Kind   error
	System System
	Op     string
	Value  int
}

func newError(kind error, system System, op string, value int) *Error {
	return &Error{Kind: kind, System: system, Op: op, Value: value}
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrInvalidMonth:
		return fmt.Sprintf("%s: month %d is invalid for the %s calendar", e.Op, e.Value, e.System)
	case ErrInvalidYear:
		return fmt.Sprintf("%s: year %d is invalid for the %s calendar", e.Op, e.Value, e.System)
	case ErrInvalidDay:
		return fmt.Sprintf("%s: day %d is invalid for the %s calendar", e.Op, e.Value, e.System)
	case ErrOverflow:
		return fmt.Sprintf("%s: %d overflows the %s calendar", e.Op, e.Value, e.System)
	default:
		return fmt.Sprintf("%s: %d is out of range for the %s calendar", e.Op, e.Value, e.System)
	}
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// IsInvalidDate reports whether err is a month, year or day validation error.
func IsInvalidDate(err error) bool {
	return errors.Is(err, ErrInvalidMonth) ||
		errors.Is(err, ErrInvalidYear) ||
		errors.Is(err, ErrInvalidDay)
}

// IsOutOfRange reports whether err is a range or overflow error.
func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange) || errors.Is(err, ErrOverflow)
}
