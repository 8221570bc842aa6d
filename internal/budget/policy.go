package budget

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CeilingMode decides whether touching the overall budget exactly counts as a breach.
type CeilingMode string

const (
	// CeilingStrict rejects a main sum that reaches the overall amount.
	CeilingStrict CeilingMode = "strict"
	// CeilingInclusive rejects only a main sum above the overall amount.
	CeilingInclusive CeilingMode = "inclusive"
)

// MinNonzeroAllocation is the smallest amount an auto-scaled, previously
// budgeted line item may hold. A budgeted line item is never displayed as
// exactly zero after scaling.
var MinNonzeroAllocation = decimal.New(1, -2)

// Policy holds the tunable business rules of the constraint engine.
type Policy struct {
	Ceiling          CeilingMode
	ReservationRatio decimal.Decimal
	WindowMonths     int
}

// DefaultPolicy returns the production rules: strict ceiling, 90% reservation
// and a creation window of the current month plus three.
func DefaultPolicy() Policy {
	return Policy{
		Ceiling:          CeilingStrict,
		ReservationRatio: decimal.RequireFromString("0.9"),
		WindowMonths:     3,
	}
}

// Validate checks the policy values.
func (p Policy) Validate() error {
	switch p.Ceiling {
	case CeilingStrict, CeilingInclusive:
	default:
		return fmt.Errorf("unknown ceiling policy %q (use strict or inclusive)", p.Ceiling)
	}
	if !p.ReservationRatio.IsPositive() || p.ReservationRatio.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("reservation ratio %s must be in (0, 1]", p.ReservationRatio)
	}
	if p.WindowMonths < 0 {
		return fmt.Errorf("window months %d must not be negative", p.WindowMonths)
	}
	return nil
}

// Breaches reports whether sum violates the ceiling under this policy.
func (p Policy) Breaches(sum, ceiling decimal.Decimal) bool {
	if p.Ceiling == CeilingInclusive {
		return sum.GreaterThan(ceiling)
	}
	return sum.GreaterThanOrEqual(ceiling)
}
