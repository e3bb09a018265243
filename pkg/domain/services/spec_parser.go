package services

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/vsinha/fsminspect/pkg/domain/entities"
)

const unsignedNumber = `(\d+(?:\.\d*)?|\.\d+)`

var (
	slotPattern        = regexp.MustCompile(`^` + unsignedNumber + `\s*[xX×*]\s*` + unsignedNumber + `$`)
	holePattern        = regexp.MustCompile(`^` + unsignedNumber + `$`)
	measurementPattern = regexp.MustCompile(`^[+-]?` + unsignedNumber + `$`)
)

// normalizeCell folds full-width digits and symbols coming out of PDF text
// layers to their ASCII forms and trims surrounding space.
func normalizeCell(raw string) string {
	return strings.TrimSpace(norm.NFKC.String(raw))
}

// ParseDimension turns a raw specification cell into a Dimension.
// "9x12", "9*12" and "9×12" are slots, "10.5" is a hole, anything else
// (including zero or negative sizes) is the unknown sentinel.
func ParseDimension(raw string, convention entities.SlotHeightConvention) entities.Dimension {
	s := normalizeCell(raw)

	if m := slotPattern.FindStringSubmatch(s); m != nil {
		first, err := decimal.NewFromString(m[1])
		if err != nil {
			return entities.UnknownDimension()
		}
		second, err := decimal.NewFromString(m[2])
		if err != nil {
			return entities.UnknownDimension()
		}
		if !first.IsPositive() || !second.IsPositive() {
			return entities.UnknownDimension()
		}
		if convention == entities.SlotMinMaxHeight {
			return entities.SlotDimension(decimal.Min(first, second), decimal.Max(first, second))
		}
		return entities.SlotDimension(first, second)
	}

	if holePattern.MatchString(s) {
		d, err := decimal.NewFromString(s)
		if err != nil || !d.IsPositive() {
			return entities.UnknownDimension()
		}
		return entities.HoleDimension(d)
	}

	return entities.UnknownDimension()
}

// ParseDimensionValue accepts a spec cell that arrived as a number rather than text
func ParseDimensionValue(v any, convention entities.SlotHeightConvention) entities.Dimension {
	switch val := v.(type) {
	case nil:
		return entities.UnknownDimension()
	case string:
		return ParseDimension(val, convention)
	case decimal.Decimal:
		if !val.IsPositive() {
			return entities.UnknownDimension()
		}
		return entities.HoleDimension(val)
	case float64:
		return dimensionFromFloat(val)
	case float32:
		return dimensionFromFloat(float64(val))
	case int:
		return dimensionFromFloat(float64(val))
	case int64:
		return dimensionFromFloat(float64(val))
	default:
		return entities.UnknownDimension()
	}
}

func dimensionFromFloat(f float64) entities.Dimension {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return entities.UnknownDimension()
	}
	return entities.HoleDimension(decimal.NewFromFloat(f))
}

// ParseMeasurement parses a signed numeric cell. Empty or non-numeric text is absent.
func ParseMeasurement(raw string) decimal.NullDecimal {
	s := normalizeCell(raw)
	if !measurementPattern.MatchString(s) {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// IsBlankCell reports whether a cell holds nothing but whitespace
func IsBlankCell(raw string) bool {
	return normalizeCell(raw) == ""
}

// ParseActualSize reads the operator's size entry. A single number fills
// Diameter, an "H×W" entry fills Height and Width using the same convention
// as the specification so the sides line up.
func ParseActualSize(raw string, convention entities.SlotHeightConvention) entities.ActualMeasurement {
	var m entities.ActualMeasurement
	dim := ParseDimension(raw, convention)
	switch dim.Kind {
	case entities.DimensionHole:
		m.Diameter = decimal.NewNullDecimal(dim.Diameter)
	case entities.DimensionSlot:
		m.Height = decimal.NewNullDecimal(dim.Height)
		m.Width = decimal.NewNullDecimal(dim.Width)
	}
	return m
}
