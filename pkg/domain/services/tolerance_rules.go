package services

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/fsminspect/pkg/domain/entities"
)

// ToleranceRules judges measured sizes and offsets against a TolerancePolicy.
// The lower size bound is always the spec itself: a feature may be oversize
// by the upper allowance but never undersize.
type ToleranceRules struct {
	policy entities.TolerancePolicy
}

// NewToleranceRules creates tolerance rules for the given policy
func NewToleranceRules(policy entities.TolerancePolicy) *ToleranceRules {
	return &ToleranceRules{policy: policy}
}

// HoleUpperAllowance returns how far above spec a hole may measure
func (r *ToleranceRules) HoleUpperAllowance(spec decimal.Decimal) decimal.Decimal {
	if spec.LessThanOrEqual(r.policy.SmallHoleMaxMm) {
		return r.policy.SmallHoleUpperMm
	}
	return r.policy.LargeHoleUpperMm
}

// HoleCheck tests one diameter against its band
func (r *ToleranceRules) HoleCheck(spec decimal.Decimal, actual decimal.NullDecimal) entities.Check {
	if !actual.Valid {
		return entities.CheckUnknown
	}
	return entities.CheckFromBool(withinBand(actual.Decimal, spec, spec.Add(r.HoleUpperAllowance(spec))))
}

// SlotSideCheck tests one side of a slot
func (r *ToleranceRules) SlotSideCheck(spec decimal.Decimal, actual decimal.NullDecimal) entities.Check {
	if !actual.Valid {
		return entities.CheckUnknown
	}
	return entities.CheckFromBool(withinBand(actual.Decimal, spec, spec.Add(r.policy.SlotUpperMm)))
}

// SlotCheck passes only when both sides pass. With one side still missing
// the slot is unknown, even if the entered side is out of band.
func (r *ToleranceRules) SlotCheck(dim entities.Dimension, height, width decimal.NullDecimal) entities.Check {
	if !height.Valid || !width.Valid {
		return entities.CheckUnknown
	}
	return AllOf(
		r.SlotSideCheck(dim.Height, height),
		r.SlotSideCheck(dim.Width, width),
	)
}

// SizeCheck picks the actual values matching the dimension's shape
func (r *ToleranceRules) SizeCheck(dim entities.Dimension, actual entities.ActualMeasurement) entities.Check {
	switch dim.Kind {
	case entities.DimensionHole:
		return r.HoleCheck(dim.Diameter, actual.Diameter)
	case entities.DimensionSlot:
		return r.SlotCheck(dim, actual.Height, actual.Width)
	default:
		return entities.CheckUnknown
	}
}

// IsEdgeZone reports whether x lies within the edge zone of either end of
// the span. Without both values nothing counts as edge.
func (r *ToleranceRules) IsEdgeZone(x, span decimal.NullDecimal) bool {
	if !x.Valid || !span.Valid || !span.Decimal.IsPositive() {
		return false
	}
	if x.Decimal.LessThanOrEqual(r.policy.EdgeZoneMm) {
		return true
	}
	return x.Decimal.GreaterThanOrEqual(span.Decimal.Sub(r.policy.EdgeZoneMm))
}

// OffsetTolerance returns the allowed ± offset at axial position x
func (r *ToleranceRules) OffsetTolerance(x, span decimal.NullDecimal) decimal.Decimal {
	if r.IsEdgeZone(x, span) {
		return r.policy.EdgeToleranceMm
	}
	return r.policy.NominalToleranceMm
}

// OffsetCheck passes when the deviation stays within the tolerance
func (r *ToleranceRules) OffsetCheck(offset OffsetResult, tolerance decimal.Decimal) entities.Check {
	if !offset.Deviation.Valid {
		return entities.CheckUnknown
	}
	return entities.CheckFromBool(offset.Deviation.Decimal.LessThanOrEqual(tolerance))
}

// AllOf combines checks conjunctively: any failure fails, otherwise any
// unknown is unknown.
func AllOf(checks ...entities.Check) entities.Check {
	result := entities.CheckPass
	for _, c := range checks {
		switch c {
		case entities.CheckFail:
			return entities.CheckFail
		case entities.CheckUnknown:
			result = entities.CheckUnknown
		}
	}
	return result
}

func withinBand(v, lower, upper decimal.Decimal) bool {
	return v.GreaterThanOrEqual(lower) && v.LessThanOrEqual(upper)
}
