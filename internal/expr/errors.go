package expr

import (
	"errors"
	"fmt"
)

var (
	// ErrOverflow matches every *OverflowError.
	ErrOverflow = errors.New("expr: overflow")
	// ErrDivideByZero matches every *DivideByZeroError.
	ErrDivideByZero = errors.New("expr: divide by zero")
	// ErrInternal marks a broken contract inside the evaluator, never a user mistake.
	ErrInternal = errors.New("expr: internal error")
)

// SyntaxCode classifies a syntax error.
type SyntaxCode int

const (
	InvalidOperand SyntaxCode = iota
	InvalidOperator
	InvalidFloatingNumber
	MissingClosingParanthese
	MissingBaseForFunction
	MissingParantheseParamForFunction
	InvalidSurroundedParameter
	NestingTooDeep
)

var syntaxCodeNames = [...]string{
	InvalidOperand:                    "InvalidOperand",
	InvalidOperator:                   "InvalidOperator",
	InvalidFloatingNumber:             "InvalidFloatingNumber",
	MissingClosingParanthese:          "MissingClosingParanthese",
	MissingBaseForFunction:            "MissingBaseForFunction",
	MissingParantheseParamForFunction: "MissingParantheseParamForFunction",
	InvalidSurroundedParameter:        "InvalidSurroundedParameter",
	NestingTooDeep:                    "NestingTooDeep",
}

func (c SyntaxCode) String() string {
	if c < 0 || int(c) >= len(syntaxCodeNames) {
		return fmt.Sprintf("SyntaxCode(%d)", int(c))
	}
	return syntaxCodeNames[c]
}

// MathCode classifies a mathematical domain error.
type MathCode int

const (
	RootBaseZero MathCode = iota
	RootParamZeroOrSmaller
	LogBaseZeroOrSmaller
	LogParamZeroOrSmaller
	TanInvalidAngle
	SinCosInvalidAngle
)

var mathCodeNames = [...]string{
	RootBaseZero:           "RootBaseZero",
	RootParamZeroOrSmaller: "RootParamZeroOrSmaller",
	LogBaseZeroOrSmaller:   "LogBaseZeroOrSmaller",
	LogParamZeroOrSmaller:  "LogParamZeroOrSmaller",
	TanInvalidAngle:        "TanInvalidAngle",
	SinCosInvalidAngle:     "SinCosInvalidAngle",
}

func (c MathCode) String() string {
	if c < 0 || int(c) >= len(mathCodeNames) {
		return fmt.Sprintf("MathCode(%d)", int(c))
	}
	return mathCodeNames[c]
}

// SyntaxError is returned when the equation text does not follow the grammar.
// Offset is the byte position in the evaluated text where scanning stopped.
type SyntaxError struct {
	Code   SyntaxCode
	Info   string
	Offset int
}

func (e *SyntaxError) Error() string {
	msg := "Syntax Error: "
	switch e.Code {
	case InvalidOperand:
		msg += "Encountered invalid operand"
	case InvalidOperator:
		msg += "Encountered invalid operator"
	case InvalidFloatingNumber:
		msg += "Encountered an invalid fractional part of an operand"
	case MissingClosingParanthese:
		msg += "Closing parentheses is missing"
	case MissingBaseForFunction:
		msg += fmt.Sprintf("For function %s, no number as base factor is provided", e.Info)
	case MissingParantheseParamForFunction:
		msg += "Missing term as parameter in parentheses"
	case InvalidSurroundedParameter:
		msg += fmt.Sprintf("Invalid parameter for surrounded parameter %s", e.Info)
	case NestingTooDeep:
		msg += fmt.Sprintf("Parentheses are nested deeper than %s levels", e.Info)
	}
	return msg
}

// MathError is returned when an operand lies outside a function's domain.
type MathError struct {
	Code MathCode
}

func (e *MathError) Error() string {
	msg := "Mathematical Error: "
	switch e.Code {
	case RootBaseZero:
		msg += "Left side of a root operation must not be 0 !"
	case RootParamZeroOrSmaller:
		msg += "Right side of a root operation must greater than 0 !"
	case LogBaseZeroOrSmaller:
		msg += "Base factor of log must be greater than zero !"
	case LogParamZeroOrSmaller:
		msg += "Term in parentheses must be greater than zero !"
	case TanInvalidAngle:
		msg += "Angle given to tan must not be 90 or 270"
	case SinCosInvalidAngle:
		msg += "Angle given to sin or cos must be between -1 and 1"
	}
	return msg
}

// OverflowError is returned when a literal or an intermediate value is not finite.
type OverflowError struct {
	Msg string
}

func (e *OverflowError) Error() string { return e.Msg }

func (e *OverflowError) Is(target error) bool { return target == ErrOverflow }

// DivideByZeroError is returned when the right side of / or % is zero.
type DivideByZeroError struct {
	Operator byte
}

func (e *DivideByZeroError) Error() string {
	return fmt.Sprintf("Mathematical Error: One denominator is zero in the operation %c !", e.Operator)
}

func (e *DivideByZeroError) Is(target error) bool { return target == ErrDivideByZero }

const (
	msgOperandTooBig     = "Mathematical Error: One operand is too big for calculation"
	msgOperationTooBig   = "Mathematical Error: one operation resulted in a too big or small number !"
	msgPowerFactorBig    = "Mathematical Error: One factor for a power operation is too big !"
	msgPowerResultBig    = "Mathematical Error: one operand is too big after raised to a certain power"
	msgFactorialTooBig   = "Mathematical Error: factorial result is too big for calculation"
	msgFunctionNotFinite = "Mathematical Error: function result is not a finite number"
)

func syntaxErr(code SyntaxCode, offset int, info string) error {
	return &SyntaxError{Code: code, Info: info, Offset: offset}
}

func mathErr(code MathCode) error {
	return &MathError{Code: code}
}
