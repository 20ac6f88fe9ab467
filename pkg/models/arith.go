package models

import "math"

// Lifted arithmetic: each helper returns an absent Value when any operand
// is absent, so missing inputs flow through a computation unchanged.

// Map applies f to a present value.
func Map(a Value, f func(float64) float64) Value {
	x, ok := a.Get()
	if !ok {
		return None()
	}
	return Some(f(x))
}

// Map2 applies f when both operands are present.
func Map2(a, b Value, f func(x, y float64) float64) Value {
	x, ok := a.Get()
	if !ok {
		return None()
	}
	y, ok := b.Get()
	if !ok {
		return None()
	}
	return Some(f(x, y))
}

// Add returns a + b.
func Add(a, b Value) Value { return Map2(a, b, func(x, y float64) float64 { return x + y }) }

// Sub returns a - b.
func Sub(a, b Value) Value { return Map2(a, b, func(x, y float64) float64 { return x - y }) }

// Mul returns a * b.
func Mul(a, b Value) Value { return Map2(a, b, func(x, y float64) float64 { return x * y }) }

// Div returns a / b. When both operands are present but |b| < epsilon the
// quotient is absent and hazard is true.
func Div(a, b Value, epsilon float64) (q Value, hazard bool) {
	x, ok := a.Get()
	if !ok {
		return None(), false
	}
	y, ok := b.Get()
	if !ok {
		return None(), false
	}
	if math.Abs(y) < epsilon || y == 0 {
		return None(), true
	}
	return Some(x / y), false
}

// Pow returns base raised to exp.
func Pow(base Value, exp float64) Value {
	return Map(base, func(x float64) float64 { return math.Pow(x, exp) })
}
