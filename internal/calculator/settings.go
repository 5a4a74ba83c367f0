package calculator

const (
	// MaxRoundingPrecision is the largest number of decimal digits a result
	// can be rounded to.
	MaxRoundingPrecision = 15

	DefaultMaxNumberOfResult = 10
)

// Settings are the per-session evaluation options. They take effect on the
// next evaluation.
type Settings struct {
	UsesRadians                 bool `json:"uses_radians"`
	UsesPointAsDecimalSeparator bool `json:"uses_point_as_decimal_separator"`
	RoundingPrecision           int  `json:"rounding_precision"`
	MaxNumberOfResult           int  `json:"max_number_of_result"`
}

// DefaultSettings uses degrees, a decimal point, full precision and ten
// history entries.
func DefaultSettings() Settings {
	return Settings{
		UsesPointAsDecimalSeparator: true,
		RoundingPrecision:           MaxRoundingPrecision,
		MaxNumberOfResult:           DefaultMaxNumberOfResult,
	}
}

// Validate returns a *RangeError for the first setting outside its domain.
func (s Settings) Validate() error {
	if err := validateRoundingPrecision(s.RoundingPrecision); err != nil {
		return err
	}
	return validateMaxNumberOfResult(s.MaxNumberOfResult)
}

// SettingsPatch is a partial update; nil fields are left untouched.
type SettingsPatch struct {
	UsesRadians                 *bool `json:"uses_radians,omitempty"`
	UsesPointAsDecimalSeparator *bool `json:"uses_point_as_decimal_separator,omitempty"`
	RoundingPrecision           *int  `json:"rounding_precision,omitempty"`
	MaxNumberOfResult           *int  `json:"max_number_of_result,omitempty"`
}

// Apply returns s with the patch applied. The result is validated as a whole
// so that a rejected patch changes nothing.
func (p SettingsPatch) Apply(s Settings) (Settings, error) {
	if p.UsesRadians != nil {
		s.UsesRadians = *p.UsesRadians
	}
	if p.UsesPointAsDecimalSeparator != nil {
		s.UsesPointAsDecimalSeparator = *p.UsesPointAsDecimalSeparator
	}
	if p.RoundingPrecision != nil {
		s.RoundingPrecision = *p.RoundingPrecision
	}
	if p.MaxNumberOfResult != nil {
		s.MaxNumberOfResult = *p.MaxNumberOfResult
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func validateRoundingPrecision(n int) error {
	if n < 0 || n > MaxRoundingPrecision {
		return &RangeError{Setting: "rounding_precision", Value: n, Min: 0, Max: MaxRoundingPrecision}
	}
	return nil
}

func validateMaxNumberOfResult(n int) error {
	if n < 1 {
		return &RangeError{Setting: "max_number_of_result", Value: n, Min: 1}
	}
	return nil
}
