package scrollbar

import "fmt"

// Unit identifies how a Val is expressed.
type Unit uint8

const (
	UnitAuto Unit = iota
	UnitPx
	UnitPercent
)

func (u Unit) String() string {
	switch u {
	case UnitAuto:
		return "auto"
	case UnitPx:
		return "px"
	case UnitPercent:
		return "percent"
	default:
		return fmt.Sprintf("unit(%d)", uint8(u))
	}
}

// Val is a declared geometry value tagged with its unit. The zero Val is Auto.
type Val struct {
	unit  Unit
	value float64
}

// Auto returns an unspecified value. The layout pass decides what it means.
func Auto() Val { return Val{} }

// Px returns an absolute value in logical pixels.
func Px(v float64) Val { return Val{unit: UnitPx, value: v} }

// Percent returns a value relative to the parent's size, in percent.
func Percent(v float64) Val { return Val{unit: UnitPercent, value: v} }

// Unit returns the unit of v.
func (v Val) Unit() Unit { return v.unit }

// AsPx returns the pixel value, or a *UnitError when v is not Px.
func (v Val) AsPx() (float64, error) {
	if v.unit != UnitPx {
		return 0, &UnitError{Want: UnitPx, Got: v.unit}
	}
	return v.value, nil
}

// AsPercent returns the percent value, or a *UnitError when v is not Percent.
func (v Val) AsPercent() (float64, error) {
	if v.unit != UnitPercent {
		return 0, &UnitError{Want: UnitPercent, Got: v.unit}
	}
	return v.value, nil
}

// SetPx replaces the value behind v, which must already be Px.
func (v *Val) SetPx(px float64) error {
	if v.unit != UnitPx {
		return &UnitError{Want: UnitPx, Got: v.unit}
	}
	v.value = px
	return nil
}

// SetPercent replaces the value behind v, which must already be Percent.
func (v *Val) SetPercent(percent float64) error {
	if v.unit != UnitPercent {
		return &UnitError{Want: UnitPercent, Got: v.unit}
	}
	v.value = percent
	return nil
}

func (v Val) String() string {
	switch v.unit {
	case UnitPx:
		return fmt.Sprintf("%gpx", v.value)
	case UnitPercent:
		return fmt.Sprintf("%g%%", v.value)
	default:
		return "auto"
	}
}

// Rect holds one Val per edge. It declares margins and padding.
type Rect struct {
	Left, Right, Top, Bottom Val
}

// All returns a Rect with every edge set to v.
func All(v Val) Rect {
	return Rect{Left: v, Right: v, Top: v, Bottom: v}
}

// Vec2 is a 2D vector in physical pixels unless stated otherwise.
type Vec2 struct {
	X, Y float64
}

// Edges holds resolved per-edge lengths in physical pixels.
type Edges struct {
	Left, Right, Top, Bottom float64
}
