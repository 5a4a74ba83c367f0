package expr

import (
	"fmt"
	"math"
)

// priorityRun collects a contiguous run of *, / and % operations. Once the
// run is resolved its value replaces the top-level operand at anchor.
type priorityRun struct {
	anchor    int
	operands  []float64
	operators []byte
}

// frame holds the flat accumulation state of one nesting level. Top-level
// operators are always + or -; multiplicative sub-runs live in runs.
type frame struct {
	operands  []float64
	operators []byte
	runs      []priorityRun
	inRun     bool
}

// push appends an operand to the open priority run, or to the top level when
// no run is open.
func (f *frame) push(v float64) {
	if f.inRun {
		r := &f.runs[len(f.runs)-1]
		r.operands = append(r.operands, v)
		return
	}
	f.operands = append(f.operands, v)
}

// digest opens a priority run on the last top-level operand, or continues
// the open one, with a multiplicative operator.
func (f *frame) digest(op byte) {
	if !f.inRun {
		last := len(f.operands) - 1
		f.runs = append(f.runs, priorityRun{
			anchor:   last,
			operands: []float64{f.operands[last]},
		})
		f.inRun = true
	}

	r := &f.runs[len(f.runs)-1]
	r.operators = append(r.operators, op)
}

// additive closes any open priority run and appends a + or - operator.
func (f *frame) additive(op byte) {
	f.inRun = false
	f.operators = append(f.operators, op)
}

// resolve folds every priority run into its anchor and then folds the top
// level, both strictly left to right.
func (f *frame) resolve() (float64, error) {
	for _, r := range f.runs {
		v, err := fold(r.operands, r.operators, priorityStep)
		if err != nil {
			return 0, err
		}
		f.operands[r.anchor] = v
	}
	return fold(f.operands, f.operators, additiveStep)
}

type stepFunc func(op byte, left, right float64) (float64, error)

func fold(operands []float64, operators []byte, step stepFunc) (float64, error) {
	if len(operators) != len(operands)-1 {
		return 0, fmt.Errorf("%w: %d operands for %d operators", ErrInternal, len(operands), len(operators))
	}

	result := operands[0]
	for i, op := range operators {
		var err error
		result, err = step(op, result, operands[i+1])
		if err != nil {
			return 0, err
		}
	}
	return result, nil
}

func additiveStep(op byte, left, right float64) (float64, error) {
	switch op {
	case '+':
		left += right
	case '-':
		left -= right
	}
	return left, checkOverflow(left, msgOperationTooBig)
}

func priorityStep(op byte, left, right float64) (float64, error) {
	switch op {
	case '*':
		left *= right
	case '/':
		if right == 0 {
			return 0, &DivideByZeroError{Operator: op}
		}
		left /= right
	case '%':
		if right == 0 {
			return 0, &DivideByZeroError{Operator: op}
		}
		left = math.Mod(left, right)
	}
	return left, checkOverflow(left, msgOperationTooBig)
}
