package expr

import (
	"fmt"
	"math"
	"strings"
)

// angles converts between the session's angle unit and radians.
type angles struct {
	radians bool
}

func (a angles) toRadians(x float64) float64 {
	if a.radians {
		return x
	}
	return DegreesToRadians(x)
}

func (a angles) fromRadians(x float64) float64 {
	if a.radians {
		return x
	}
	return RadiansToDegrees(x)
}

// function computes a named function. base is only meaningful for functions
// that need one (log); arg is the parenthesised term.
type function func(a angles, base, arg float64) (float64, error)

var functions = map[string]function{
	"log": func(_ angles, base, arg float64) (float64, error) {
		if base <= 0 {
			return 0, mathErr(LogBaseZeroOrSmaller)
		}
		if arg <= 0 {
			return 0, mathErr(LogParamZeroOrSmaller)
		}
		return math.Log(arg) / math.Log(base), nil
	},
	"ln": func(_ angles, _, arg float64) (float64, error) {
		if arg <= 0 {
			return 0, mathErr(LogParamZeroOrSmaller)
		}
		return math.Log(arg), nil
	},
	"sin": func(a angles, _, arg float64) (float64, error) {
		return math.Sin(a.toRadians(arg)), nil
	},
	"cos": func(a angles, _, arg float64) (float64, error) {
		return math.Cos(a.toRadians(arg)), nil
	},
	"tan": func(a angles, _, arg float64) (float64, error) {
		degrees := arg
		if a.radians {
			degrees = RadiansToDegrees(arg)
		}
		if degrees == 90 || degrees == 270 {
			return 0, mathErr(TanInvalidAngle)
		}
		return math.Tan(a.toRadians(arg)), nil
	},
	// cosin is the arcsine.
	"cosin": func(a angles, _, arg float64) (float64, error) {
		if math.Abs(arg) > 1 {
			return 0, mathErr(SinCosInvalidAngle)
		}
		return a.fromRadians(math.Asin(arg)), nil
	},
	// cocos is the arccosine.
	"cocos": func(a angles, _, arg float64) (float64, error) {
		if math.Abs(arg) > 1 {
			return 0, mathErr(SinCosInvalidAngle)
		}
		return a.fromRadians(math.Acos(arg)), nil
	},
	// cotan is the arctangent.
	"cotan": func(a angles, _, arg float64) (float64, error) {
		return a.fromRadians(math.Atan(arg)), nil
	},
}

func callFunction(name string, a angles, base, arg float64) (float64, error) {
	fn, ok := functions[name]
	if !ok {
		return 0, fmt.Errorf("%w: no function named %q", ErrInternal, name)
	}

	v, err := fn(a, base, arg)
	if err != nil {
		return 0, err
	}
	return v, checkOverflow(v, msgFunctionNotFinite)
}

// applyMarker evaluates a surrounded operator. For roots left is the index
// and right the radicand.
func applyMarker(left, right float64, marker string) (float64, error) {
	switch marker {
	case "^", "E":
		return math.Pow(left, right), nil
	case "R", "√":
		if left == 0 {
			return 0, mathErr(RootBaseZero)
		}
		if right <= 0 {
			return 0, mathErr(RootParamZeroOrSmaller)
		}
		return math.Pow(right, 1/left), nil
	}
	return 0, fmt.Errorf("%w: unknown surrounded operator %q", ErrInternal, marker)
}

// constantProduct multiplies the values of a run of constant symbols.
func constantProduct(run string) float64 {
	product := 1.0
	for _, r := range strings.ReplaceAll(run, "pi", "π") {
		switch r {
		case 'π':
			product *= math.Pi
		case 'e':
			product *= math.E
		}
	}
	return product
}
