package fees

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// Precision is the number of fractional decimal digits a Multiplier keeps.
const Precision = 10

var precisionDenominator = new(big.Int).Exp(big.NewInt(10), big.NewInt(Precision), nil)

// Multiplier is a non-negative fixed-point scaling factor stored as an
// integer numerator over 10^Precision.
type Multiplier struct {
	numerator *big.Int
}

// One leaves the scaled value unchanged.
var One = Multiplier{numerator: new(big.Int).Set(precisionDenominator)}

// NewMultiplier rounds f to Precision fractional digits.
func NewMultiplier(f float64) (Multiplier, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Multiplier{}, fmt.Errorf("%w: multiplier must be finite, got %v", ErrInvalidArgument, f)
	}
	return MultiplierFromDecimal(decimal.NewFromFloat(f))
}

// ParseMultiplier parses a decimal string such as "1.25".
func ParseMultiplier(s string) (Multiplier, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Multiplier{}, fmt.Errorf("%w: invalid multiplier %q", ErrInvalidArgument, s)
	}
	return MultiplierFromDecimal(d)
}

// MultiplierFromDecimal rounds d half away from zero to Precision digits.
func MultiplierFromDecimal(d decimal.Decimal) (Multiplier, error) {
	if d.IsNegative() {
		return Multiplier{}, fmt.Errorf("%w: multiplier must not be negative, got %s", ErrInvalidArgument, d)
	}
	return Multiplier{numerator: d.Shift(Precision).Round(0).BigInt()}, nil
}

// Numerator returns a copy of the fixed-point numerator.
func (m Multiplier) Numerator() *big.Int {
	if m.numerator == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(m.numerator)
}

// Decimal returns the multiplier as an exact decimal.
func (m Multiplier) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(m.Numerator(), -Precision)
}

// IsOne reports whether scaling by m is a no-op.
func (m Multiplier) IsOne() bool {
	return m.Numerator().Cmp(precisionDenominator) == 0
}

func (m Multiplier) String() string {
	return m.Decimal().String()
}

// Scale returns floor(value * m) using integer arithmetic only.
func (m Multiplier) Scale(value *big.Int) (*big.Int, error) {
	if value == nil {
		return nil, fmt.Errorf("%w: value is nil", ErrInvalidArgument)
	}
	if value.Sign() < 0 {
		return nil, fmt.Errorf("%w: value must not be negative, got %s", ErrInvalidArgument, value)
	}
	scaled := new(big.Int).Mul(value, m.Numerator())
	return scaled.Quo(scaled, precisionDenominator), nil
}

// ScaleByDecimalMultiplier returns floor(value * multiplier). The multiplier
// is rounded to Precision fractional digits before use.
func ScaleByDecimalMultiplier(value *big.Int, multiplier float64) (*big.Int, error) {
	m, err := NewMultiplier(multiplier)
	if err != nil {
		return nil, err
	}
	return m.Scale(value)
}
