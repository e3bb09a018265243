package entities

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// MaxRows is the fixed number of addressable rows in the inspection table
	MaxRows = 45
	// MaxHoleChecks limits the auxiliary per-hole checks
	MaxHoleChecks = 5
)

var (
	ErrTooManyRows        = errors.New("too many inspection rows")
	ErrRowIndexOutOfRange = errors.New("row index out of range")
	ErrTooManyHoleChecks  = errors.New("too many auxiliary hole checks")
	ErrDuplicateRowSeq    = errors.New("duplicate row sequence number")
)

// InspectionDocument is an immutable snapshot of one inspection: header,
// the padded table and whatever the operator has entered so far. Every
// With method returns a new document and leaves the receiver untouched.
type InspectionDocument struct {
	header        HeaderInfo
	headerActuals HeaderActuals
	rows          [MaxRows]SpecRow
	actuals       [MaxRows]ActualMeasurement
	auxiliary     []AuxiliaryCheck
}

// NewInspectionDocument creates a document from parsed header and rows.
// Short row lists are padded with blank rows so the table always has MaxRows slots.
func NewInspectionDocument(header HeaderInfo, rows []SpecRow) (InspectionDocument, error) {
	var doc InspectionDocument
	if len(rows) > MaxRows {
		return doc, fmt.Errorf("%w: got %d, maximum is %d", ErrTooManyRows, len(rows), MaxRows)
	}

	doc.header = header
	seen := make(map[int]bool, len(rows))
	lastSeq := 0
	for _, row := range rows {
		if row.Seq == 0 {
			continue
		}
		if seen[row.Seq] {
			return InspectionDocument{}, fmt.Errorf("%w: %d", ErrDuplicateRowSeq, row.Seq)
		}
		seen[row.Seq] = true
		lastSeq = max(lastSeq, row.Seq)
	}
	// rows without a seq take their position, or the next unused number after it
	for i, row := range rows {
		if row.Seq == 0 {
			seq := i + 1
			for seen[seq] {
				seq++
			}
			seen[seq] = true
			row.Seq = seq
			lastSeq = max(lastSeq, seq)
		}
		doc.rows[i] = row
	}
	// padding continues numbering after the highest real row
	for i := len(rows); i < MaxRows; i++ {
		lastSeq++
		doc.rows[i] = BlankSpecRow(lastSeq)
	}
	return doc, nil
}

// Header returns the document header
func (d InspectionDocument) Header() HeaderInfo {
	return d.header
}

// HeaderActuals returns the operator-entered header values
func (d InspectionDocument) HeaderActuals() HeaderActuals {
	return d.headerActuals.clone()
}

// Rows returns a copy of all row slots including blank padding
func (d InspectionDocument) Rows() []SpecRow {
	return append([]SpecRow(nil), d.rows[:]...)
}

// Row returns the row in slot i
func (d InspectionDocument) Row(i int) (SpecRow, error) {
	if i < 0 || i >= MaxRows {
		return SpecRow{}, fmt.Errorf("%w: %d", ErrRowIndexOutOfRange, i)
	}
	return d.rows[i], nil
}

// Actual returns the measurement entered for slot i
func (d InspectionDocument) Actual(i int) (ActualMeasurement, error) {
	if i < 0 || i >= MaxRows {
		return ActualMeasurement{}, fmt.Errorf("%w: %d", ErrRowIndexOutOfRange, i)
	}
	return d.actuals[i], nil
}

// Actuals returns a copy of the measurements of every slot
func (d InspectionDocument) Actuals() []ActualMeasurement {
	return append([]ActualMeasurement(nil), d.actuals[:]...)
}

// AuxiliaryChecks returns a copy of the auxiliary checks
func (d InspectionDocument) AuxiliaryChecks() []AuxiliaryCheck {
	return append([]AuxiliaryCheck(nil), d.auxiliary...)
}

// PopulatedRows counts the rows that are not blank padding
func (d InspectionDocument) PopulatedRows() int {
	n := 0
	for _, r := range d.rows {
		if !r.IsBlank() {
			n++
		}
	}
	return n
}

// IndexOfSeq finds the slot holding the row with the given sequence number
func (d InspectionDocument) IndexOfSeq(seq int) (int, bool) {
	for i, r := range d.rows {
		if r.Seq == seq {
			return i, true
		}
	}
	return -1, false
}

// WithActual returns a copy with the measurement for slot i replaced
func (d InspectionDocument) WithActual(i int, m ActualMeasurement) (InspectionDocument, error) {
	if i < 0 || i >= MaxRows {
		return d, fmt.Errorf("%w: %d", ErrRowIndexOutOfRange, i)
	}
	next := d.clone()
	next.actuals[i] = m
	return next, nil
}

// WithoutActual returns a copy with the measurement for slot i cleared
func (d InspectionDocument) WithoutActual(i int) (InspectionDocument, error) {
	return d.WithActual(i, ActualMeasurement{})
}

// WithHeaderActuals returns a copy with the operator header values replaced
func (d InspectionDocument) WithHeaderActuals(a HeaderActuals) InspectionDocument {
	next := d.clone()
	next.headerActuals = a.clone()
	return next
}

// WithAuxiliaryChecks returns a copy with the auxiliary checks replaced
func (d InspectionDocument) WithAuxiliaryChecks(checks []AuxiliaryCheck) (InspectionDocument, error) {
	holes := 0
	for _, c := range checks {
		if c.Kind == AuxiliaryHole {
			holes++
		}
	}
	if holes > MaxHoleChecks {
		return d, fmt.Errorf("%w: got %d, maximum is %d", ErrTooManyHoleChecks, holes, MaxHoleChecks)
	}
	next := d.clone()
	next.auxiliary = append([]AuxiliaryCheck(nil), checks...)
	return next, nil
}

// EffectiveSpan is the FSM length used for edge-zone decisions: the measured
// length when the operator has entered a positive one, otherwise the header spec.
func (d InspectionDocument) EffectiveSpan() decimal.NullDecimal {
	if d.SpanIsMeasured() {
		return d.headerActuals.FsmLength
	}
	return d.header.FsmLength
}

// SpanIsMeasured reports whether EffectiveSpan comes from the operator's measurement
func (d InspectionDocument) SpanIsMeasured() bool {
	return d.headerActuals.FsmLength.Valid && d.headerActuals.FsmLength.Decimal.IsPositive()
}

func (d InspectionDocument) clone() InspectionDocument {
	next := d
	next.headerActuals = d.headerActuals.clone()
	next.auxiliary = append([]AuxiliaryCheck(nil), d.auxiliary...)
	return next
}
