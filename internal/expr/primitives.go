package expr

import (
	"math"
	"strings"
)

// maxFactorial is the largest n whose factorial still fits into a float64.
const maxFactorial = 170

// FoldSign reduces a run of '+' and '-' to +1 or -1. An even number of
// minus signs, including none, yields +1.
func FoldSign(run string) float64 {
	if strings.Count(run, "-")%2 == 0 {
		return 1
	}
	return -1
}

// Faculty returns n! computed on |n| with the sign of n reapplied, so
// Faculty(-4) is -24 and Faculty(0) is 1. Results beyond 20! wrap like any
// other int multiplication; once the wrapped product reaches 0 it stays 0,
// so the loop stops there and every n runs in bounded time.
func Faculty(n int) int {
	magnitude := uint(n)
	if n < 0 {
		magnitude = -magnitude
	}

	var result uint = 1
	for i := magnitude; i > 0 && result != 0; i-- {
		result *= i
	}

	if n < 0 {
		return -int(result)
	}
	return int(result)
}

// factorial is the evaluator's variant of Faculty. n must be integral; the
// sign of n is reapplied to the result.
func factorial(n float64) (float64, error) {
	magnitude := math.Abs(n)
	if magnitude > maxFactorial {
		return 0, &OverflowError{Msg: msgFactorialTooBig}
	}

	result := 1.0
	for i := magnitude; i > 0; i-- {
		result *= i
	}

	if n < 0 {
		result = -result
	}
	return result, nil
}

// DegreesToRadians converts an angle in degrees to radians.
func DegreesToRadians(degrees float64) float64 {
	return (math.Pi / 180) * degrees
}

// RadiansToDegrees converts an angle in radians to degrees.
func RadiansToDegrees(radians float64) float64 {
	return (180 / math.Pi) * radians
}

// checkOverflow rejects values that left the finite float64 range.
func checkOverflow(x float64, msg string) error {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return &OverflowError{Msg: msg}
	}
	return nil
}
