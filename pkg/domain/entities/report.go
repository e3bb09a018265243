package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// RowReport pairs a row with its operator input and verdict
type RowReport struct {
	Row     SpecRow           `json:"row"`
	Actual  ActualMeasurement `json:"actual"`
	Verdict RowVerdict        `json:"verdict"`
	Blank   bool              `json:"blank"`
}

// HeaderComparison is a spec/actual pair from the document header.
// Informational comparisons report a deviation but carry no verdict.
type HeaderComparison struct {
	Field         string              `json:"field"`
	Spec          string              `json:"spec"`
	Actual        string              `json:"actual"`
	Check         Check               `json:"check"`
	Deviation     decimal.NullDecimal `json:"deviation"`
	Informational bool                `json:"informational"`
}

// ReportSummary counts row outcomes; blank padding rows are counted apart
type ReportSummary struct {
	Rows         int `json:"rows"`
	OK           int `json:"ok"`
	NOK          int `json:"nok"`
	Undetermined int `json:"undetermined"`
	Blank        int `json:"blank"`
	AuxiliaryNOK int `json:"auxiliary_nok"`
	HeaderNOK    int `json:"header_nok"`
}

// InspectionReport is the evaluated state of a document at one point in time
type InspectionReport struct {
	ID                string              `json:"id"`
	GeneratedAt       time.Time           `json:"generated_at"`
	Header            HeaderInfo          `json:"header"`
	HeaderActuals     HeaderActuals       `json:"header_actuals"`
	EffectiveSpan     decimal.NullDecimal `json:"effective_span"`
	HeaderChecks      []HeaderComparison  `json:"header_checks"`
	Rows              []RowReport         `json:"rows"`
	Auxiliary         []AuxiliaryResult   `json:"auxiliary"`
	Summary           ReportSummary       `json:"summary"`
	HasOutstandingNok bool                `json:"has_outstanding_nok"`
}

// NokRows returns the reports of rows whose result is NOK
func (r *InspectionReport) NokRows() []RowReport {
	var rows []RowReport
	for _, row := range r.Rows {
		if row.Verdict.Result == ResultNOK {
			rows = append(rows, row)
		}
	}
	return rows
}
