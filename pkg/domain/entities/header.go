package entities

import (
	"github.com/shopspring/decimal"
)

// Count is an optional whole-number quantity such as a hole count
type Count struct {
	Value int  `json:"value"`
	Valid bool `json:"valid"`
}

// NewCount creates a present count
func NewCount(v int) Count {
	return Count{Value: v, Valid: true}
}

// HeaderInfo carries the document-level specification fields.
// Empty strings and invalid nullable values mean the field was not found.
type HeaderInfo struct {
	PartNumber string              `json:"part_number"`
	Level      string              `json:"level"`
	Hand       string              `json:"hand"`
	FormatNo   string              `json:"format_no"`
	FsmLength  decimal.NullDecimal `json:"fsm_length"`
	RootWidth  decimal.NullDecimal `json:"root_width"`
	TotalHoles Count               `json:"total_holes"`
	KBCode     string              `json:"kb_code"`
	PCCode     string              `json:"pc_code"`
}

// HeaderActuals are the operator-entered header values
type HeaderActuals struct {
	FsmSerial  string              `json:"fsm_serial"`
	Inspectors []string            `json:"inspectors"`
	MatrixUsed string              `json:"matrix_used"`
	TotalHoles Count               `json:"total_holes"`
	KBCode     string              `json:"kb_code"`
	PCCode     string              `json:"pc_code"`
	RootWidth  decimal.NullDecimal `json:"root_width"`
	FsmLength  decimal.NullDecimal `json:"fsm_length"`
}

func (a HeaderActuals) clone() HeaderActuals {
	if a.Inspectors != nil {
		a.Inspectors = append([]string(nil), a.Inspectors...)
	}
	return a
}
