package services

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/fsminspect/pkg/domain/entities"
)

// OffsetResult holds the projected feature centre and how far the operator's
// axis reading sits from it
type OffsetResult struct {
	PredictedCenter decimal.NullDecimal
	Offset          decimal.NullDecimal
	Deviation       decimal.NullDecimal
}

// Known reports whether a deviation could be computed
func (o OffsetResult) Known() bool {
	return o.Deviation.Valid
}

// OffsetCalculator projects the expected axis reading from the spec.
// The operator measures to the hole edge, so the expected reading is the
// spec Y/Z plus the effective radius of the feature.
type OffsetCalculator struct{}

// NewOffsetCalculator creates a new offset calculator
func NewOffsetCalculator() *OffsetCalculator {
	return &OffsetCalculator{}
}

// PredictedCenter returns specYZ + effective radius, or absent when either is unknown
func (c *OffsetCalculator) PredictedCenter(specYZ decimal.NullDecimal, dim entities.Dimension) decimal.NullDecimal {
	radius, ok := dim.EffectiveRadius()
	if !specYZ.Valid || !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(specYZ.Decimal.Add(radius))
}

// ComputeOffset compares the actual axis reading with the predicted centre
func (c *OffsetCalculator) ComputeOffset(specYZ decimal.NullDecimal, dim entities.Dimension, actualAxis decimal.NullDecimal) OffsetResult {
	result := OffsetResult{PredictedCenter: c.PredictedCenter(specYZ, dim)}
	if !result.PredictedCenter.Valid || !actualAxis.Valid {
		return result
	}
	offset := actualAxis.Decimal.Sub(result.PredictedCenter.Decimal)
	result.Offset = decimal.NewNullDecimal(offset)
	result.Deviation = decimal.NewNullDecimal(offset.Abs())
	return result
}
