// Package calculator turns equations into rounded results and keeps the
// per-session settings and history around the expression engine.
package calculator

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"go-chi-calculator/internal/expr"
)

// Session evaluates equations with its own settings, current result and
// history. A Session is not safe for concurrent use; Store serialises access
// to the sessions it holds.
type Session struct {
	settings Settings
	current  float64
	history  history
}

// NewSession returns a session using settings, or a *RangeError when one of
// them is out of range.
func NewSession(settings Settings) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		settings: settings,
		history:  history{limit: settings.MaxNumberOfResult},
	}, nil
}

// EvaluateText is Evaluate for input that may be absent altogether.
func (s *Session) EvaluateText(text *string) (float64, error) {
	if text == nil {
		return 0, ErrNullInput
	}
	return s.Evaluate(*text)
}

// Evaluate computes equation, rounds the value to the rounding precision and
// records it as the current result and newest history entry. On error the
// session is left unchanged. Only the empty string is ErrEmptyInput; text
// made of whitespace alone fails in the engine as an invalid operand.
func (s *Session) Evaluate(equation string) (float64, error) {
	if equation == "" {
		return 0, ErrEmptyInput
	}
	equation = strings.TrimSpace(equation)

	src := equation
	if !s.settings.UsesPointAsDecimalSeparator {
		src = strings.ReplaceAll(src, ",", ".")
	}

	v, err := expr.Evaluate(src, expr.Options{Radians: s.settings.UsesRadians})
	if err != nil {
		return 0, err
	}

	v = round(v, s.settings.RoundingPrecision)
	s.current = v
	s.history.push(Calculation{
		Result:   FormatResult(v, s.settings.UsesPointAsDecimalSeparator),
		Equation: equation,
	})
	return v, nil
}

// ClearHistory drops every calculation and resets the current result.
func (s *Session) ClearHistory() {
	s.history.clear()
	s.current = 0
}

func (s *Session) Settings() Settings { return s.settings }

// ApplySettings validates the patched settings before applying any of them.
func (s *Session) ApplySettings(p SettingsPatch) error {
	next, err := p.Apply(s.settings)
	if err != nil {
		return err
	}
	s.settings = next
	s.history.setLimit(next.MaxNumberOfResult)
	return nil
}

func (s *Session) UsesRadians() bool { return s.settings.UsesRadians }

func (s *Session) SetUsesRadians(v bool) { s.settings.UsesRadians = v }

func (s *Session) UsesPointAsDecimalSeparator() bool {
	return s.settings.UsesPointAsDecimalSeparator
}

func (s *Session) SetUsesPointAsDecimalSeparator(v bool) {
	s.settings.UsesPointAsDecimalSeparator = v
}

func (s *Session) RoundingPrecision() int { return s.settings.RoundingPrecision }

// SetRoundingPrecision accepts 0 to MaxRoundingPrecision digits.
func (s *Session) SetRoundingPrecision(n int) error {
	if err := validateRoundingPrecision(n); err != nil {
		return err
	}
	s.settings.RoundingPrecision = n
	return nil
}

func (s *Session) MaxNumberOfResult() int { return s.settings.MaxNumberOfResult }

// SetMaxNumberOfResult changes the history capacity, dropping the oldest
// entries that no longer fit.
func (s *Session) SetMaxNumberOfResult(n int) error {
	if err := validateMaxNumberOfResult(n); err != nil {
		return err
	}
	s.settings.MaxNumberOfResult = n
	s.history.setLimit(n)
	return nil
}

func (s *Session) CurrentResult() float64 { return s.current }

// IntegerPart is the current result truncated toward zero.
func (s *Session) IntegerPart() float64 { return math.Trunc(s.current) }

// FractionalPart is the digits after the decimal point of the current
// result as a non-negative value below 1, so 78.04 yields 0.04.
func (s *Session) FractionalPart() float64 {
	d := decimal.NewFromFloat(s.current)
	f, _ := d.Sub(d.Truncate(0)).Abs().Float64()
	return f
}

// History returns a copy of the calculations, most recent first.
func (s *Session) History() []Calculation { return s.history.snapshot() }

// LastResult is the rendered result of the most recent calculation.
func (s *Session) LastResult() (string, bool) {
	c, ok := s.history.latest()
	return c.Result, ok
}

// LastEquation is the most recent calculation.
func (s *Session) LastEquation() (Calculation, bool) { return s.history.latest() }

// Faculty returns n! with the sign of n reapplied.
func Faculty(n int) int { return expr.Faculty(n) }

// round applies banker's rounding on the decimal representation of v.
func round(v float64, places int) float64 {
	r, _ := decimal.NewFromFloat(v).RoundBank(int32(places)).Float64()
	return r
}
