// Package field defines the scalar value model used by program schemas and
// experiment parameters: the declared type of a field, concrete values, and
// the declarative settings (single value, list, range) a field may take.
package field

import (
	"fmt"
	"strconv"
)

// Kind discriminates the concrete variants of a Data value.
type Kind int

const (
	// KindFuture marks a value that will only exist once a dependency job
	// has run. It renders as the empty string and type-checks as a string.
	KindFuture Kind = iota
	KindStr
	KindUInt
	KindFloat
	KindBool
)

// Data is a single concrete parameter value. The zero value is the Future
// sentinel. Data is comparable, so values can be compared with == and used
// as map keys.
type Data struct {
	kind Kind
	str  string
	u    uint64
	f    float64
	b    bool
}

// Future returns the placeholder for a value produced by a dependency job
// at run time.
func Future() Data { return Data{kind: KindFuture} }

// Str wraps a string value.
func Str(s string) Data { return Data{kind: KindStr, str: s} }

// UInt wraps an unsigned integer value.
func UInt(u uint64) Data { return Data{kind: KindUInt, u: u} }

// Float wraps a floating-point value.
func Float(f float64) Data { return Data{kind: KindFloat, f: f} }

// Bool wraps a boolean value.
func Bool(b bool) Data { return Data{kind: KindBool, b: b} }

// Kind reports which variant this value holds.
func (d Data) Kind() Kind { return d.kind }

// String renders the value the way it appears in a command line: strings as
// themselves, numbers in decimal, booleans as "true"/"false", and Future as
// the empty string.
func (d Data) String() string {
	switch d.kind {
	case KindStr:
		return d.str
	case KindUInt:
		return strconv.FormatUint(d.u, 10)
	case KindFloat:
		return strconv.FormatFloat(d.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(d.b)
	default:
		return ""
	}
}

// Describe renders the value together with its kind, for error messages.
func (d Data) Describe() string {
	switch d.kind {
	case KindStr:
		return fmt.Sprintf("str(%q)", d.str)
	case KindUInt:
		return fmt.Sprintf("uint(%d)", d.u)
	case KindFloat:
		return fmt.Sprintf("float(%s)", strconv.FormatFloat(d.f, 'g', -1, 64))
	case KindBool:
		return fmt.Sprintf("bool(%t)", d.b)
	default:
		return "future"
	}
}

// AsUInt returns the value as an unsigned integer. Floats with a zero
// fractional part are accepted, mirroring the permissive integral coercion
// of the type system.
func (d Data) AsUInt() (uint64, bool) {
	switch d.kind {
	case KindUInt:
		return d.u, true
	case KindFloat:
		if d.f >= 0 && d.f == float64(uint64(d.f)) {
			return uint64(d.f), true
		}
	}
	return 0, false
}

// AsFloat returns the value as a float. Unsigned integers widen losslessly
// for range arithmetic; this does not loosen the type-matching rules.
func (d Data) AsFloat() (float64, bool) {
	switch d.kind {
	case KindFloat:
		return d.f, true
	case KindUInt:
		return float64(d.u), true
	}
	return 0, false
}

// AsBool returns the boolean value, if this is one.
func (d Data) AsBool() (bool, bool) {
	if d.kind == KindBool {
		return d.b, true
	}
	return false, false
}
