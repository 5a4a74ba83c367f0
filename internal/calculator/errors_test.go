package calculator

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"go-chi-calculator/internal/expr"
)

func TestKindOfAndCodeOf(t *testing.T) {
	evalErr := func(equation string) error {
		_, err := expr.Evaluate(equation, expr.Options{})
		return err
	}

	tests := []struct {
		name string
		err  error
		kind Kind
		code string
	}{
		{"null", ErrNullInput, KindNullInput, ""},
		{"empty", ErrEmptyInput, KindEmptyInput, ""},
		{"syntax", evalErr("24 +"), KindSyntax, "InvalidOperand"},
		{"math", evalErr("tan(90)"), KindMathematical, "TanInvalidAngle"},
		{"overflow", evalErr("171!"), KindOverflow, ""},
		{"divide", evalErr("8%0"), KindDivideByZero, ""},
		{"range", &RangeError{Setting: "rounding_precision", Value: 16, Max: 15}, KindRange, "rounding_precision"},
		{"wrapped", fmt.Errorf("evaluating: %w", evalErr("log(2)")), KindSyntax, "MissingBaseForFunction"},
		{"not found", ErrSessionNotFound, KindNotFound, ""},
		{"full", ErrTooManySessions, KindCapacity, ""},
		{"unknown", errors.New("boom"), KindInternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.Equal(t, tt.code, CodeOf(tt.err))
		})
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(KindSyntax))
	assert.Equal(t, http.StatusBadRequest, StatusFor(KindNullInput))
	assert.Equal(t, http.StatusBadRequest, StatusFor(KindDivideByZero))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(KindRange))
	assert.Equal(t, http.StatusNotFound, StatusFor(KindNotFound))
	assert.Equal(t, http.StatusServiceUnavailable, StatusFor(KindCapacity))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(KindInternal))
}

func TestRangeErrorMessage(t *testing.T) {
	err := &RangeError{Setting: "max_number_of_result", Value: -1, Min: 1}
	assert.Equal(t, "Argument Error: max_number_of_result must be at least 1, got -1", err.Error())
	assert.ErrorIs(t, err, ErrOutOfRange)
}
