package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Check is a tri-state outcome of a single tolerance test
type Check int

const (
	CheckUnknown Check = iota
	CheckPass
	CheckFail
)

// String method for Check enum
func (c Check) String() string {
	switch c {
	case CheckPass:
		return "pass"
	case CheckFail:
		return "fail"
	default:
		return "unknown"
	}
}

// MarshalText encodes the check by name
func (c Check) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a check name written by MarshalText
func (c *Check) UnmarshalText(text []byte) error {
	switch string(text) {
	case "pass":
		*c = CheckPass
	case "fail":
		*c = CheckFail
	case "unknown", "":
		*c = CheckUnknown
	default:
		return fmt.Errorf("invalid check value: %q", text)
	}
	return nil
}

// CheckFromBool converts a definite comparison into a Check
func CheckFromBool(ok bool) Check {
	if ok {
		return CheckPass
	}
	return CheckFail
}

// RowResult is the verdict shown for a row
type RowResult int

const (
	ResultUndetermined RowResult = iota
	ResultOK
	ResultNOK
)

// String method for RowResult enum
func (r RowResult) String() string {
	switch r {
	case ResultOK:
		return "OK"
	case ResultNOK:
		return "NOK"
	default:
		return ""
	}
}

// MarshalText encodes the result by name; undetermined encodes as "UNDETERMINED"
func (r RowResult) MarshalText() ([]byte, error) {
	if r == ResultUndetermined {
		return []byte("UNDETERMINED"), nil
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a result written by MarshalText
func (r *RowResult) UnmarshalText(text []byte) error {
	switch string(text) {
	case "OK":
		*r = ResultOK
	case "NOK":
		*r = ResultNOK
	case "UNDETERMINED", "":
		*r = ResultUndetermined
	default:
		return fmt.Errorf("invalid row result: %q", text)
	}
	return nil
}

// RowState is the lifecycle state of a row under operator edits
type RowState int

const (
	RowIncomplete RowState = iota
	RowEvaluated
)

// String method for RowState enum
func (s RowState) String() string {
	if s == RowEvaluated {
		return "Evaluated"
	}
	return "Incomplete"
}

// RowVerdict is recomputed from a row's inputs on every change and never stored on its own
type RowVerdict struct {
	Dimension       Dimension           `json:"dimension"`
	PredictedCenter decimal.NullDecimal `json:"predicted_center"`
	Offset          decimal.NullDecimal `json:"offset"`
	Deviation       decimal.NullDecimal `json:"deviation"`
	Tolerance       decimal.Decimal     `json:"tolerance"`
	EdgeZone        bool                `json:"edge_zone"`
	SizeCheck       Check               `json:"size_ok"`
	OffsetCheck     Check               `json:"offset_ok"`
	Result          RowResult           `json:"result"`
}

// State derives the row state from the result
func (v RowVerdict) State() RowState {
	if v.Result == ResultUndetermined {
		return RowIncomplete
	}
	return RowEvaluated
}
