package entities

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SpecRow is one measurement station of the inspection table
type SpecRow struct {
	Seq        int                 `json:"seq"`
	Press      string              `json:"press"`
	SelectorID string              `json:"selector_id"`
	Ref        string              `json:"ref"`
	X          decimal.NullDecimal `json:"x"`
	SpecYZ     decimal.NullDecimal `json:"spec_yz"`
	SpecDiaRaw string              `json:"spec_dia"`
}

// BlankSpecRow creates a padding row with every field absent
func BlankSpecRow(seq int) SpecRow {
	return SpecRow{Seq: seq}
}

// IsBlank reports whether the row carries no data apart from its sequence number
func (r SpecRow) IsBlank() bool {
	return r.Press == "" &&
		r.SelectorID == "" &&
		r.Ref == "" &&
		!r.X.Valid &&
		!r.SpecYZ.Valid &&
		strings.TrimSpace(r.SpecDiaRaw) == ""
}

// ActualMeasurement is what the operator entered for a row.
// Diameter is used for holes, Height and Width for slots.
type ActualMeasurement struct {
	ValueFromEdge decimal.NullDecimal `json:"value_from_edge"`
	Diameter      decimal.NullDecimal `json:"diameter"`
	Height        decimal.NullDecimal `json:"height"`
	Width         decimal.NullDecimal `json:"width"`
	Axis          decimal.NullDecimal `json:"axis"`
}

// IsEmpty reports whether nothing has been entered
func (m ActualMeasurement) IsEmpty() bool {
	return !m.ValueFromEdge.Valid && !m.Diameter.Valid && !m.Height.Valid && !m.Width.Valid && !m.Axis.Valid
}
