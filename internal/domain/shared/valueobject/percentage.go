package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// ErrPercentageOutOfRange is returned when a percentage is outside [0, 100]
	ErrPercentageOutOfRange = errors.New("percentage must be between 0 and 100")

	// ErrPercentagePrecision is returned when a percentage has more fraction
	// digits than StorageScale
	ErrPercentagePrecision = errors.New("percentage has too many fraction digits")
)

// Percentage is an immutable decimal percentage in the closed range [0, 100].
// The zero value is 0%.
type Percentage struct {
	value decimal.Decimal
}

// NewPercentage validates and wraps a decimal percentage
func NewPercentage(value decimal.Decimal) (Percentage, error) {
	if value.IsNegative() || value.GreaterThan(hundred) {
		return Percentage{}, fmt.Errorf("%w: got %s", ErrPercentageOutOfRange, value.String())
	}
	if !FitsScale(value, StorageScale) {
		return Percentage{}, fmt.Errorf("%w: got %s", ErrPercentagePrecision, value.String())
	}
	return Percentage{value: value}, nil
}

// NewPercentageFromString parses a percentage such as "2.5"
func NewPercentageFromString(s string) (Percentage, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Percentage{}, fmt.Errorf("invalid percentage %q: %w", s, err)
	}
	return NewPercentage(d)
}

// MustPercentage is NewPercentageFromString that panics on error. Use for constants and tests.
func MustPercentage(s string) Percentage {
	p, err := NewPercentageFromString(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Decimal returns the percentage as a decimal (e.g. 2.5 for 2.5%)
func (p Percentage) Decimal() decimal.Decimal {
	return p.value
}

// IsZero reports whether the percentage is 0%
func (p Percentage) IsZero() bool {
	return p.value.IsZero()
}

// Of returns amount * p / 100. The division by 100 is a decimal shift, so the
// result is exact for any finite amount.
func (p Percentage) Of(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(p.value).Shift(-2)
}

// Equal compares two percentages by value
func (p Percentage) Equal(other Percentage) bool {
	return p.value.Equal(other.value)
}

// String returns the percentage without a trailing % sign
func (p Percentage) String() string {
	return p.value.String()
}

// MarshalJSON encodes the percentage as a JSON string to keep precision
func (p Percentage) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.value.String())
}

// UnmarshalJSON accepts both JSON numbers and strings
func (p *Percentage) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid percentage: %w", err)
	}
	parsed, err := NewPercentage(d)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Value implements driver.Valuer
func (p Percentage) Value() (driver.Value, error) {
	return p.value.String(), nil
}

// Scan implements sql.Scanner
func (p *Percentage) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("scan percentage: %w", err)
	}
	p.value = d
	return nil
}
