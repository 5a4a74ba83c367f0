// Package expr evaluates arithmetic equations written as plain text.
//
// The grammar covers + - * / %, implicit multiplication before a
// parenthesis, powers and roots (^ E R √), factorials, the constants pi, π
// and e, and the functions log, ln, sin, cos, tan, cosin, cocos and cotan.
// Multiplicative operators bind tighter than additive ones and both
// associate left to right.
package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultMaxDepth bounds how deep parentheses may nest.
const DefaultMaxDepth = 256

// Options tune a single evaluation.
type Options struct {
	// Radians switches trigonometric functions from degrees to radians.
	Radians bool
	// MaxDepth overrides DefaultMaxDepth when positive.
	MaxDepth int
}

type state int

const (
	expectOperand state = iota
	expectOperator
)

type evaluator struct {
	s        scanner
	angles   angles
	depth    int
	maxDepth int
}

// Evaluate computes the value of equation. The text is scanned as given:
// trimming and decimal separator handling are up to the caller, and a ','
// inside a literal is rejected.
func Evaluate(equation string, opts Options) (float64, error) {
	ev := &evaluator{
		s:        scanner{src: equation},
		angles:   angles{radians: opts.Radians},
		maxDepth: opts.MaxDepth,
	}
	if ev.maxDepth <= 0 {
		ev.maxDepth = DefaultMaxDepth
	}

	v, err := ev.term(false)
	if err != nil {
		return 0, err
	}
	if err := checkOverflow(v, msgOperationTooBig); err != nil {
		return 0, err
	}
	return v, nil
}

// term evaluates operands and operators until the input ends or, when
// closesOnParen is set, until the matching ')' has been consumed.
func (ev *evaluator) term(closesOnParen bool) (float64, error) {
	ev.depth++
	defer func() { ev.depth-- }()
	if ev.depth > ev.maxDepth {
		return 0, syntaxErr(NestingTooDeep, ev.s.pos, strconv.Itoa(ev.maxDepth))
	}

	var f frame
	st := expectOperand
	closed := false

	for !ev.s.done() {
		if closesOnParen {
			if t, ok := ev.s.closeParen(); ok {
				ev.s.advance(t)
				closed = true
				break
			}
		}

		if t, ok := ev.s.openParen(); ok {
			ev.s.advance(t)
			v, err := ev.group()
			if err != nil {
				return 0, err
			}
			if st == expectOperator {
				f.digest('*')
			}
			f.push(v)
			st = expectOperator
			continue
		}

		switch st {
		case expectOperand:
			v, err := ev.operand()
			if err != nil {
				return 0, err
			}
			f.push(v)
			st = expectOperator

		case expectOperator:
			t, ok := ev.s.operator()
			if !ok {
				return 0, syntaxErr(InvalidOperator, ev.s.pos, "")
			}
			ev.s.advance(t)
			if t.priority {
				f.digest(t.op)
			} else {
				f.additive(t.op)
			}
			st = expectOperand
		}
	}

	if closesOnParen && !closed {
		return 0, syntaxErr(MissingClosingParanthese, ev.s.pos, "")
	}
	if st == expectOperand {
		return 0, syntaxErr(InvalidOperand, ev.s.pos, "")
	}
	return f.resolve()
}

// group evaluates a parenthesised term whose '(' was consumed, then applies
// a marker written directly after the ')'.
func (ev *evaluator) group() (float64, error) {
	v, err := ev.term(true)
	if err != nil {
		return 0, err
	}

	if t, ok := ev.s.marker(); ok {
		ev.s.advance(t)
		return ev.surrounded(v, t.marker)
	}
	return v, nil
}

func (ev *evaluator) operand() (float64, error) {
	if t, ok := ev.s.function(); ok {
		ev.s.advance(t)
		return ev.call(t)
	}

	if t, ok := ev.s.factorial(); ok {
		ev.s.advance(t)
		n, err := ev.literal(t.sign, t.literal, msgOperandTooBig)
		if err != nil {
			return 0, err
		}
		return factorial(n)
	}

	if t, ok := ev.s.operand(); ok {
		ev.s.advance(t)
		return ev.number(t)
	}

	if t, ok := ev.s.bareMarker(); ok {
		ev.s.advance(t)
		return ev.surrounded(2, t.marker)
	}

	return 0, syntaxErr(InvalidOperand, ev.s.pos, "")
}

// number turns a scanned operand into its value: the signed literal, fused
// with any trailing constants, then raised or rooted by its marker. A run of
// constants without a literal ignores the sign.
func (ev *evaluator) number(t token) (float64, error) {
	value := 0.0
	if t.literal != "" {
		v, err := ev.literal(t.sign, t.literal, msgOperandTooBig)
		if err != nil {
			return 0, err
		}
		value = v
	}

	if t.constants != "" {
		c := constantProduct(t.constants)
		if value == 0 {
			value = c
		} else {
			value *= c
		}
		if err := checkOverflow(value, msgOperandTooBig); err != nil {
			return 0, err
		}
	}

	if t.marker != "" {
		return ev.surrounded(value, t.marker)
	}
	return value, nil
}

func (ev *evaluator) literal(sign, text, overflowMsg string) (float64, error) {
	if strings.ContainsRune(text, ',') {
		return 0, syntaxErr(InvalidFloatingNumber, ev.s.pos, text)
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: parsing literal %q: %v", ErrInternal, text, err)
	}
	if err := checkOverflow(v, overflowMsg); err != nil {
		return 0, err
	}
	return FoldSign(sign) * v, nil
}

// surrounded reads the right side of a power or root marker, either a signed
// literal or a parenthesised term, and applies the marker to left.
func (ev *evaluator) surrounded(left float64, marker string) (float64, error) {
	if t, ok := ev.s.rightLiteral(); ok {
		ev.s.advance(t)
		right, err := ev.literal(t.sign, t.literal, msgPowerFactorBig)
		if err != nil {
			return 0, err
		}
		v, err := applyMarker(left, right, marker)
		if err != nil {
			return 0, err
		}
		return v, checkOverflow(v, msgPowerResultBig)
	}

	if t, ok := ev.s.argParen(); ok {
		ev.s.advance(t)
		right, err := ev.term(true)
		if err != nil {
			return 0, err
		}
		v, err := applyMarker(left, right, marker)
		if err != nil {
			return 0, err
		}
		return v, checkOverflow(v, "Mathematical Error: One operand is too big or small after the operation "+marker)
	}

	return 0, syntaxErr(InvalidSurroundedParameter, ev.s.pos, marker)
}

// call evaluates a function whose name was consumed: the base for log, then
// the parenthesised argument glued to the name or base.
func (ev *evaluator) call(t token) (float64, error) {
	base := 0.0
	if t.needsBase {
		b, ok := ev.s.base()
		if !ok {
			return 0, syntaxErr(MissingBaseForFunction, ev.s.pos, t.name)
		}
		ev.s.advance(b)
		v, err := ev.number(b)
		if err != nil {
			return 0, err
		}
		base = v
	}

	p, ok := ev.s.argParen()
	if !ok {
		return 0, syntaxErr(MissingParantheseParamForFunction, ev.s.pos, t.name)
	}
	ev.s.advance(p)

	arg, err := ev.term(true)
	if err != nil {
		return 0, err
	}
	return callFunction(t.name, ev.angles, base, arg)
}
