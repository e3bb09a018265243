package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SlotHeightConvention decides which token of an "H×W" slot is the height
type SlotHeightConvention string

const (
	// SlotFirstTokenHeight reads the first number as height regardless of magnitude
	SlotFirstTokenHeight SlotHeightConvention = "first-token"
	// SlotMinMaxHeight reads the smaller number as height and the larger as width
	SlotMinMaxHeight SlotHeightConvention = "min-max"
)

// Valid reports whether the convention is one of the known values
func (c SlotHeightConvention) Valid() bool {
	return c == SlotFirstTokenHeight || c == SlotMinMaxHeight
}

// TolerancePolicy holds the rule set used to judge sizes and offsets.
// All values are millimetres.
type TolerancePolicy struct {
	NominalToleranceMm   decimal.Decimal
	EdgeToleranceMm      decimal.Decimal
	EdgeZoneMm           decimal.Decimal
	SmallHoleMaxMm       decimal.Decimal
	SmallHoleUpperMm     decimal.Decimal
	LargeHoleUpperMm     decimal.Decimal
	SlotUpperMm          decimal.Decimal
	SlotHeightConvention SlotHeightConvention
}

// DefaultTolerancePolicy returns the canonical rule set: ±1.0 offset, ±1.5
// within 200 mm of either end, holes up to 10.7 get +0.4, everything else +0.5.
func DefaultTolerancePolicy() TolerancePolicy {
	return TolerancePolicy{
		NominalToleranceMm:   decimal.RequireFromString("1.0"),
		EdgeToleranceMm:      decimal.RequireFromString("1.5"),
		EdgeZoneMm:           decimal.NewFromInt(200),
		SmallHoleMaxMm:       decimal.RequireFromString("10.7"),
		SmallHoleUpperMm:     decimal.RequireFromString("0.4"),
		LargeHoleUpperMm:     decimal.RequireFromString("0.5"),
		SlotUpperMm:          decimal.RequireFromString("0.5"),
		SlotHeightConvention: SlotFirstTokenHeight,
	}
}

// Validate checks the policy for values that would make every check meaningless
func (p TolerancePolicy) Validate() error {
	positive := []struct {
		name  string
		value decimal.Decimal
	}{
		{"nominal tolerance", p.NominalToleranceMm},
		{"edge tolerance", p.EdgeToleranceMm},
		{"small hole upper allowance", p.SmallHoleUpperMm},
		{"large hole upper allowance", p.LargeHoleUpperMm},
		{"slot upper allowance", p.SlotUpperMm},
	}
	for _, f := range positive {
		if !f.value.IsPositive() {
			return fmt.Errorf("%s must be positive, got %s", f.name, f.value)
		}
	}
	if p.EdgeZoneMm.IsNegative() {
		return fmt.Errorf("edge zone cannot be negative, got %s", p.EdgeZoneMm)
	}
	if !p.SmallHoleMaxMm.IsPositive() {
		return fmt.Errorf("small hole limit must be positive, got %s", p.SmallHoleMaxMm)
	}
	if !p.SlotHeightConvention.Valid() {
		return fmt.Errorf("unknown slot height convention: %q", p.SlotHeightConvention)
	}
	return nil
}
