package layout

import (
	"strconv"
	"strings"
)

// This file defines unit-safe lengths used by configuration (font size, available width) and backends.

// Unit represents the original unit of a length value.
type Unit int

const (
	UnitNone Unit = iota // font-relative (em) numbers
	UnitPX               // device units, treated as points by page-based backends
	UnitPT               // points
	UnitMM               // millimeters
	UnitIN               // inches
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return "px"
	case UnitPT:
		return "pt"
	case UnitMM:
		return "mm"
	case UnitIN:
		return "in"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// ToPT converts this length to points. px and pt are the same device unit; unit-less values pass through.
func (l Length) ToPT() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value * MmToPt
	case UnitIN:
		return l.Value * 72
	default:
		return l.Value
	}
}

// ToMM converts this length to millimeters.
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value
	case UnitIN:
		return l.Value * 25.4
	default:
		return l.Value * PtToMm
	}
}

// ToEm converts this length to font-relative units for the given font size (device units per em).
func (l Length) ToEm(fontSize float64) float64 {
	if l.Unit == UnitNone || fontSize <= 0 {
		return l.Value
	}
	return l.ToPT() / fontSize
}

// ParseLength parses "32", "32px", "24pt", "8mm" or "1in". A malformed value yields a zero length.
func ParseLength(value string) Length {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitPX}, {"pt", UnitPT}, {"mm", UnitMM}, {"in", UnitIN}, {"em", UnitNone}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}
	}
	return Length{Value: f, Unit: unit}
}
