package events

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/fsminspect/pkg/domain/entities"
)

const (
	DocumentLoadedEvent = "document.loaded"

	ActualRecordedEvent         = "actual.recorded"
	ActualClearedEvent          = "actual.cleared"
	HeaderActualsUpdatedEvent   = "header.actuals.updated"
	AuxiliaryChecksUpdatedEvent = "auxiliary.updated"

	SpanChangedEvent  = "span.changed"
	RowEvaluatedEvent = "row.evaluated"
	NokFlaggedEvent   = "nok.flagged"
	NokClearedEvent   = "nok.cleared"

	ReportGeneratedEvent = "report.generated"
	ReportArchivedEvent  = "report.archived"
)

type DocumentLoaded struct {
	PartNumber    string              `json:"part_number"`
	PopulatedRows int                 `json:"populated_rows"`
	EffectiveSpan decimal.NullDecimal `json:"effective_span"`
}

type ActualRecorded struct {
	Index  int                        `json:"index"`
	Seq    int                        `json:"seq"`
	Actual entities.ActualMeasurement `json:"actual"`
}

type ActualCleared struct {
	Index int `json:"index"`
	Seq   int `json:"seq"`
}

type HeaderActualsUpdated struct {
	Actuals entities.HeaderActuals `json:"actuals"`
}

type AuxiliaryChecksUpdated struct {
	Checks int `json:"checks"`
}

type SpanChanged struct {
	OldSpan  decimal.NullDecimal `json:"old_span"`
	NewSpan  decimal.NullDecimal `json:"new_span"`
	Measured bool                `json:"measured"`
}

type RowEvaluated struct {
	Index   int                 `json:"index"`
	Seq     int                 `json:"seq"`
	Verdict entities.RowVerdict `json:"verdict"`
}

// NokFlagged is raised when a row's result turns NOK
type NokFlagged struct {
	Index   int                 `json:"index"`
	Seq     int                 `json:"seq"`
	Verdict entities.RowVerdict `json:"verdict"`
}

// NokCleared is raised when a row that was NOK no longer is
type NokCleared struct {
	Index  int                `json:"index"`
	Seq    int                `json:"seq"`
	Result entities.RowResult `json:"result"`
}

type ReportGenerated struct {
	ReportID          string                 `json:"report_id"`
	Summary           entities.ReportSummary `json:"summary"`
	HasOutstandingNok bool                   `json:"has_outstanding_nok"`
}

type ReportArchived struct {
	ReportID string `json:"report_id"`
}
