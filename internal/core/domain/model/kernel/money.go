package kernel

import (
	"fmt"
	"math"

	"orderflow/internal/pkg/errs"
)

// Money is a non-negative amount in minor currency units (cents).
// Arithmetic never produces a negative value; sums that would overflow int64 are rejected.
type Money struct {
	minor int64
}

// NewMoney validates that amount is not negative.
func NewMoney(minor int64) (Money, error) {
	if minor < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money", fmt.Errorf("%d is negative", minor))
	}
	return Money{minor: minor}, nil
}

// Minor returns the amount in minor units.
func (m Money) Minor() int64 {
	return m.minor
}

// Add returns the sum of both amounts, or a ValueIsOutOfRangeError if it does not fit in int64.
func (m Money) Add(other Money) (Money, error) {
	if other.minor > math.MaxInt64-m.minor {
		return Money{}, errs.NewValueIsOutOfRangeErrorWithCause(
			"money", other.minor, 0, math.MaxInt64-m.minor,
			fmt.Errorf("%d + %d overflows", m.minor, other.minor),
		)
	}
	return Money{minor: m.minor + other.minor}, nil
}

func (m Money) IsEqual(other Money) bool {
	return m.minor == other.minor
}

// String renders the amount with two decimals, e.g. "12.50".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.minor/100, m.minor%100)
}
