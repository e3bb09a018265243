package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DimensionKind tags the shape of a specified feature
type DimensionKind int

const (
	DimensionUnknown DimensionKind = iota
	DimensionHole
	DimensionSlot
)

// String method for DimensionKind enum
func (k DimensionKind) String() string {
	switch k {
	case DimensionHole:
		return "hole"
	case DimensionSlot:
		return "slot"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name
func (k DimensionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name written by MarshalText
func (k *DimensionKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "hole":
		*k = DimensionHole
	case "slot":
		*k = DimensionSlot
	case "unknown", "":
		*k = DimensionUnknown
	default:
		return fmt.Errorf("invalid dimension kind: %q", text)
	}
	return nil
}

var two = decimal.NewFromInt(2)

// Dimension is the typed form of a raw diameter or slot specification.
// Only the fields matching Kind are meaningful.
type Dimension struct {
	Kind     DimensionKind   `json:"kind"`
	Diameter decimal.Decimal `json:"diameter"`
	Height   decimal.Decimal `json:"height"`
	Width    decimal.Decimal `json:"width"`
}

// HoleDimension creates a round hole dimension
func HoleDimension(diameter decimal.Decimal) Dimension {
	return Dimension{Kind: DimensionHole, Diameter: diameter}
}

// SlotDimension creates an oblong slot dimension
func SlotDimension(height, width decimal.Decimal) Dimension {
	return Dimension{Kind: DimensionSlot, Height: height, Width: width}
}

// UnknownDimension is the sentinel for an unparseable specification
func UnknownDimension() Dimension {
	return Dimension{Kind: DimensionUnknown}
}

// IsKnown reports whether the dimension parsed to a hole or a slot
func (d Dimension) IsKnown() bool {
	return d.Kind == DimensionHole || d.Kind == DimensionSlot
}

// EffectiveRadius is half the diameter for a hole and half the height for a slot.
func (d Dimension) EffectiveRadius() (decimal.Decimal, bool) {
	switch d.Kind {
	case DimensionHole:
		return d.Diameter.Div(two), true
	case DimensionSlot:
		return d.Height.Div(two), true
	default:
		return decimal.Zero, false
	}
}

func (d Dimension) String() string {
	switch d.Kind {
	case DimensionHole:
		return "Ø" + d.Diameter.String()
	case DimensionSlot:
		return d.Height.String() + "×" + d.Width.String()
	default:
		return "?"
	}
}
