package services

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/fsminspect/pkg/domain/entities"
)

// RowEvaluator turns spec rows and operator input into verdicts
type RowEvaluator struct {
	policy  entities.TolerancePolicy
	rules   *ToleranceRules
	offsets *OffsetCalculator
}

// NewRowEvaluator creates a row evaluator for the given policy
func NewRowEvaluator(policy entities.TolerancePolicy) *RowEvaluator {
	return &RowEvaluator{
		policy:  policy,
		rules:   NewToleranceRules(policy),
		offsets: NewOffsetCalculator(),
	}
}

// Policy returns the policy the evaluator judges against
func (e *RowEvaluator) Policy() entities.TolerancePolicy {
	return e.policy
}

// Rules exposes the underlying tolerance rules
func (e *RowEvaluator) Rules() *ToleranceRules {
	return e.rules
}

// EvaluateRow computes the verdict for one row. span is the FSM length that
// decides edge-zone membership.
func (e *RowEvaluator) EvaluateRow(row entities.SpecRow, actual entities.ActualMeasurement, span decimal.NullDecimal) entities.RowVerdict {
	dim := ParseDimension(row.SpecDiaRaw, e.policy.SlotHeightConvention)
	size := e.rules.SizeCheck(dim, actual)

	offset := e.offsets.ComputeOffset(row.SpecYZ, dim, actual.Axis)
	tolerance := e.rules.OffsetTolerance(row.X, span)
	offsetCheck := e.rules.OffsetCheck(offset, tolerance)

	return entities.RowVerdict{
		Dimension:       dim,
		PredictedCenter: offset.PredictedCenter,
		Offset:          offset.Offset,
		Deviation:       offset.Deviation,
		Tolerance:       tolerance,
		EdgeZone:        e.rules.IsEdgeZone(row.X, span),
		SizeCheck:       size,
		OffsetCheck:     offsetCheck,
		Result:          CombineChecks(size, offsetCheck),
	}
}

// CombineChecks derives the row result. A definite failure wins; OK needs
// both checks to pass, so missing input can never show as OK.
func CombineChecks(checks ...entities.Check) entities.RowResult {
	switch AllOf(checks...) {
	case entities.CheckPass:
		return entities.ResultOK
	case entities.CheckFail:
		return entities.ResultNOK
	default:
		return entities.ResultUndetermined
	}
}

// EvaluateAuxiliary evaluates a visual or per-hole check
func (e *RowEvaluator) EvaluateAuxiliary(check entities.AuxiliaryCheck) entities.AuxiliaryResult {
	result := entities.AuxiliaryResult{Check: check, Dimension: entities.UnknownDimension()}
	switch check.Kind {
	case entities.AuxiliaryVisual:
		result.Result = CombineChecks(check.Observed)
	case entities.AuxiliaryHole:
		result.Dimension = ParseDimension(check.SpecDiaRaw, e.policy.SlotHeightConvention)
		result.Result = CombineChecks(e.rules.SizeCheck(result.Dimension, check.Actual))
	}
	return result
}

// CompareHeader pairs header spec values with the operator's header entries.
// Hole count and codes must match exactly; lengths are reported as deviations.
func (e *RowEvaluator) CompareHeader(header entities.HeaderInfo, actuals entities.HeaderActuals) []entities.HeaderComparison {
	return []entities.HeaderComparison{
		compareCount("total_holes", header.TotalHoles, actuals.TotalHoles),
		compareCode("kb_code", header.KBCode, actuals.KBCode),
		compareCode("pc_code", header.PCCode, actuals.PCCode),
		compareLength("root_width", header.RootWidth, actuals.RootWidth),
		compareLength("fsm_length", header.FsmLength, actuals.FsmLength),
	}
}

// EvaluateDocument evaluates every slot, auxiliary check and header pair.
// The returned report has no ID or timestamp; callers stamp those.
func (e *RowEvaluator) EvaluateDocument(doc entities.InspectionDocument) entities.InspectionReport {
	span := doc.EffectiveSpan()
	report := entities.InspectionReport{
		Header:        doc.Header(),
		HeaderActuals: doc.HeaderActuals(),
		EffectiveSpan: span,
		HeaderChecks:  e.CompareHeader(doc.Header(), doc.HeaderActuals()),
	}

	actuals := doc.Actuals()
	for i, row := range doc.Rows() {
		rr := entities.RowReport{
			Row:     row,
			Actual:  actuals[i],
			Verdict: e.EvaluateRow(row, actuals[i], span),
			Blank:   row.IsBlank(),
		}
		report.Rows = append(report.Rows, rr)

		if rr.Blank {
			report.Summary.Blank++
			continue
		}
		report.Summary.Rows++
		switch rr.Verdict.Result {
		case entities.ResultOK:
			report.Summary.OK++
		case entities.ResultNOK:
			report.Summary.NOK++
		default:
			report.Summary.Undetermined++
		}
	}

	for _, check := range doc.AuxiliaryChecks() {
		res := e.EvaluateAuxiliary(check)
		if res.Result == entities.ResultNOK {
			report.Summary.AuxiliaryNOK++
		}
		report.Auxiliary = append(report.Auxiliary, res)
	}

	for _, hc := range report.HeaderChecks {
		if hc.Check == entities.CheckFail {
			report.Summary.HeaderNOK++
		}
	}

	report.HasOutstandingNok = report.Summary.NOK > 0 ||
		report.Summary.AuxiliaryNOK > 0 ||
		report.Summary.HeaderNOK > 0
	return report
}

func compareCount(field string, spec, actual entities.Count) entities.HeaderComparison {
	hc := entities.HeaderComparison{Field: field}
	if spec.Valid {
		hc.Spec = strconv.Itoa(spec.Value)
	}
	if actual.Valid {
		hc.Actual = strconv.Itoa(actual.Value)
	}
	if spec.Valid && actual.Valid {
		hc.Check = entities.CheckFromBool(spec.Value == actual.Value)
	}
	return hc
}

func compareCode(field, spec, actual string) entities.HeaderComparison {
	spec = strings.TrimSpace(spec)
	actual = strings.TrimSpace(actual)
	hc := entities.HeaderComparison{Field: field, Spec: spec, Actual: actual}
	if spec != "" && actual != "" {
		hc.Check = entities.CheckFromBool(strings.EqualFold(spec, actual))
	}
	return hc
}

func compareLength(field string, spec, actual decimal.NullDecimal) entities.HeaderComparison {
	hc := entities.HeaderComparison{Field: field, Informational: true}
	if spec.Valid {
		hc.Spec = spec.Decimal.String()
	}
	if actual.Valid {
		hc.Actual = actual.Decimal.String()
	}
	if spec.Valid && actual.Valid {
		hc.Deviation = decimal.NewNullDecimal(actual.Decimal.Sub(spec.Decimal))
	}
	return hc
}
