package calculator

import (
	"errors"
	"fmt"
	"net/http"

	"go-chi-calculator/internal/expr"
)

var (
	// ErrNullInput is returned when no equation was supplied at all.
	ErrNullInput = errors.New("Null Error: no equation was provided")
	// ErrEmptyInput is returned for an equation without any content.
	ErrEmptyInput = errors.New("Input Error: the equation is empty")
	// ErrOutOfRange matches every *RangeError.
	ErrOutOfRange = errors.New("Argument Error: value out of range")

	ErrSessionNotFound = errors.New("calculator: session not found")
	ErrTooManySessions = errors.New("calculator: too many sessions")
)

// RangeError reports a setting that was given a value outside its domain.
// The previous value of the setting is kept.
type RangeError struct {
	Setting string
	Value   int
	Min     int
	Max     int // 0 when unbounded
}

func (e *RangeError) Error() string {
	if e.Max == 0 {
		return fmt.Sprintf("Argument Error: %s must be at least %d, got %d", e.Setting, e.Min, e.Value)
	}
	return fmt.Sprintf("Argument Error: %s must be between %d and %d, got %d", e.Setting, e.Min, e.Max, e.Value)
}

func (e *RangeError) Is(target error) bool { return target == ErrOutOfRange }

// Kind is the user-facing category of an evaluation error.
type Kind string

const (
	KindNullInput    Kind = "NullInputError"
	KindEmptyInput   Kind = "EmptyInputError"
	KindSyntax       Kind = "SyntaxError"
	KindMathematical Kind = "MathematicalError"
	KindOverflow     Kind = "OverflowError"
	KindDivideByZero Kind = "DivideByZeroError"
	KindRange        Kind = "RangeError"
	KindInternal     Kind = "InternalError"

	// Kinds that only the HTTP API reports.
	KindInvalidRequest Kind = "InvalidRequestError"
	KindNotFound       Kind = "NotFoundError"
	KindCapacity       Kind = "CapacityError"
)

// KindOf classifies err. Errors that do not come from the calculator are
// reported as KindInternal.
func KindOf(err error) Kind {
	var (
		syntaxErr *expr.SyntaxError
		mathErr   *expr.MathError
	)

	switch {
	case errors.Is(err, ErrNullInput):
		return KindNullInput
	case errors.Is(err, ErrEmptyInput):
		return KindEmptyInput
	case errors.As(err, &syntaxErr):
		return KindSyntax
	case errors.As(err, &mathErr):
		return KindMathematical
	case errors.Is(err, expr.ErrOverflow):
		return KindOverflow
	case errors.Is(err, expr.ErrDivideByZero):
		return KindDivideByZero
	case errors.Is(err, ErrOutOfRange):
		return KindRange
	case errors.Is(err, ErrSessionNotFound):
		return KindNotFound
	case errors.Is(err, ErrTooManySessions):
		return KindCapacity
	}
	return KindInternal
}

// StatusFor maps a kind to the HTTP status it is reported with.
func StatusFor(kind Kind) int {
	switch kind {
	case KindRange:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindCapacity:
		return http.StatusServiceUnavailable
	case KindInternal:
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// CodeOf returns the variant of a syntax or mathematical error, or the
// setting name of a range error. It is empty for every other error.
func CodeOf(err error) string {
	var (
		syntaxErr *expr.SyntaxError
		mathErr   *expr.MathError
		rangeErr  *RangeError
	)

	switch {
	case errors.As(err, &syntaxErr):
		return syntaxErr.Code.String()
	case errors.As(err, &mathErr):
		return mathErr.Code.String()
	case errors.As(err, &rangeErr):
		return rangeErr.Setting
	}
	return ""
}
