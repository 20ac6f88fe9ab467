package models

import (
	"math"
	"strconv"
)

// Value is an optional float64. The zero Value is absent.
//
// Absent models "field not found or not computable"; it is distinct from a
// present zero.
type Value struct {
	v  float64
	ok bool
}

// Some returns a present Value. NaN and ±Inf are treated as absent since
// they carry no usable number.
func Some(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Value{}
	}
	return Value{v: v, ok: true}
}

// None returns an absent Value.
func None() Value { return Value{} }

// FromPtr converts a nullable pointer, as decoded from JSON, into a Value.
func FromPtr(p *float64) Value {
	if p == nil {
		return None()
	}
	return Some(*p)
}

// Get returns the number and whether it is present.
func (x Value) Get() (float64, bool) { return x.v, x.ok }

// Present reports whether the value is present.
func (x Value) Present() bool { return x.ok }

// OrElse returns the number if present, otherwise def.
func (x Value) OrElse(def float64) float64 {
	if x.ok {
		return x.v
	}
	return def
}

// String renders the number, or "<absent>".
func (x Value) String() string {
	if !x.ok {
		return "<absent>"
	}
	return strconv.FormatFloat(x.v, 'f', -1, 64)
}
