package entities

import (
	"fmt"
)

// AuxiliaryKind distinguishes the extra checks recorded next to the main table
type AuxiliaryKind int

const (
	AuxiliaryVisual AuxiliaryKind = iota
	AuxiliaryHole
)

// String method for AuxiliaryKind enum
func (k AuxiliaryKind) String() string {
	switch k {
	case AuxiliaryVisual:
		return "visual"
	case AuxiliaryHole:
		return "hole"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name
func (k AuxiliaryKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name written by MarshalText
func (k *AuxiliaryKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "visual":
		*k = AuxiliaryVisual
	case "hole":
		*k = AuxiliaryHole
	default:
		return fmt.Errorf("invalid auxiliary check kind: %q", text)
	}
	return nil
}

// AuxiliaryCheck is a visual yes/no check or a stand-alone hole size check
type AuxiliaryCheck struct {
	Kind       AuxiliaryKind     `json:"kind"`
	Name       string            `json:"name"`
	Observed   Check             `json:"observed"`
	SpecDiaRaw string            `json:"spec_dia"`
	Actual     ActualMeasurement `json:"actual"`
}

// NewVisualCheck creates a visual check with the observed outcome
func NewVisualCheck(name string, observed Check) (*AuxiliaryCheck, error) {
	if name == "" {
		return nil, fmt.Errorf("visual check name cannot be empty")
	}
	return &AuxiliaryCheck{
		Kind:     AuxiliaryVisual,
		Name:     name,
		Observed: observed,
	}, nil
}

// NewHoleCheck creates a hole size check
func NewHoleCheck(name, specDiaRaw string, actual ActualMeasurement) (*AuxiliaryCheck, error) {
	if name == "" {
		return nil, fmt.Errorf("hole check name cannot be empty")
	}
	if specDiaRaw == "" {
		return nil, fmt.Errorf("hole check %s: spec diameter cannot be empty", name)
	}
	return &AuxiliaryCheck{
		Kind:       AuxiliaryHole,
		Name:       name,
		SpecDiaRaw: specDiaRaw,
		Actual:     actual,
	}, nil
}

// AuxiliaryResult is the evaluated form of an AuxiliaryCheck
type AuxiliaryResult struct {
	Check     AuxiliaryCheck `json:"check"`
	Dimension Dimension      `json:"dimension"`
	Result    RowResult      `json:"result"`
}
