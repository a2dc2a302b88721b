package chrono

import (
	"errors"
	"fmt"
)

// Domain errors for time computations.
//
// Every failure returned by an Engine operation is an *Error wrapping one of
// these sentinels, so callers can branch with errors.Is.
var (
	// ErrUnknownUnit indicates a duration or timestamp unit outside the fixed enumeration.
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrInvalidTimezone indicates a timezone identifier the zone database rejects.
	ErrInvalidTimezone = errors.New("invalid timezone")

	// ErrInvalidFormat indicates a format keyword outside the fixed enumeration.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidInstant indicates a time string that could not be parsed.
	ErrInvalidInstant = errors.New("invalid time")

	// ErrInvalidCustomFormat indicates a custom format payload that is missing,
	// not a JSON object, or contains unsupported fields or values.
	ErrInvalidCustomFormat = errors.New("invalid custom format")

	// ErrInvalidConstraintRange indicates a numeric constraint outside its allowed range.
	ErrInvalidConstraintRange = errors.New("value out of range")

	// ErrMissingConstraint indicates an occurrence pattern with no field set.
	ErrMissingConstraint = errors.New("at least one of dayOfWeek, dayOfMonth, or time must be specified")

	// ErrInvalidTimeOfDay indicates a time-of-day string not in HH:mm form.
	ErrInvalidTimeOfDay = errors.New("invalid time of day, use HH:mm (e.g. \"14:30\")")

	// ErrEmptyTimezones indicates a snapshot request without any timezone.
	ErrEmptyTimezones = errors.New("at least one timezone is required")

	// ErrSearchExhausted indicates the next-occurrence search hit its bound
	// without finding a matching day.
	ErrSearchExhausted = errors.New("no matching occurrence within search window")
)

// Operation names reported in errors.
const (
	OpCurrentTime       = "get_current_time"
	OpTimestamp         = "get_timestamp"
	OpAddTime           = "add_time"
	OpTimeDiff          = "time_diff"
	OpConvertTimezone   = "convert_timezone"
	OpMultipleTimezones = "get_multiple_timezones"
	OpBusinessDays      = "get_business_days"
	OpNextOccurrence    = "next_occurrence"
)

// Error describes a failed operation.
//
// Msg, when set, replaces the sentinel's text in the rendered message
// (e.g. "invalid target timezone") while Err remains the matchable kind.
type Error struct {
	Op    string
	Field string
	Value string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	switch {
	case e.Field == "":
	case e.Value == "":
		msg = fmt.Sprintf("%s: %s", msg, e.Field)
	default:
		msg = fmt.Sprintf("%s: %s %q", msg, e.Field, e.Value)
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

// Unwrap returns the sentinel error kind.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op, field, value string, err error) *Error {
	return &Error{Op: op, Field: field, Value: value, Err: err}
}

// withOp rebinds a validation error produced by a shared helper to op.
func withOp(op string, err error) error {
	var ce *Error
	if errors.As(err, &ce) {
		out := *ce
		out.Op = op
		return &out
	}
	return &Error{Op: op, Err: err}
}
