package field

import (
	"fmt"
	"math"
)

// Type is the declared kind of a program field. It constrains which Data
// values and which Settings may be bound to the field.
type Type int

const (
	TypeStr Type = iota
	TypePath
	TypeUInt
	TypeFloat
	TypeBool
)

// ParseType maps the keyword used in spec files to a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "str":
		return TypeStr, nil
	case "path":
		return TypePath, nil
	case "uint":
		return TypeUInt, nil
	case "float":
		return TypeFloat, nil
	case "bool":
		return TypeBool, nil
	default:
		return TypeStr, fmt.Errorf("unknown field type %q (want str, path, uint, float or bool)", s)
	}
}

func (t Type) String() string {
	switch t {
	case TypeStr:
		return "str"
	case TypePath:
		return "path"
	case TypeUInt:
		return "uint"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Matches reports whether a concrete value satisfies this declared type.
// Path accepts anything Str accepts. UInt additionally accepts a float with
// a zero fractional part. Future stands in for a string that a dependency
// will produce, so it matches Str only.
func (t Type) Matches(d Data) bool {
	switch d.Kind() {
	case KindStr:
		return t == TypeStr || t == TypePath
	case KindUInt:
		return t == TypeUInt
	case KindFloat:
		if t == TypeFloat {
			return true
		}
		return t == TypeUInt && math.Trunc(d.f) == d.f
	case KindBool:
		return t == TypeBool
	case KindFuture:
		return t == TypeStr
	default:
		return false
	}
}

// MatchesSetting reports whether a declarative setting is compatible with
// this type. Ranges are only meaningful over numeric types, and each of
// from/to/step must individually match.
func (t Type) MatchesSetting(s Setting) bool {
	switch s.Kind() {
	case SettingRange:
		if t != TypeUInt && t != TypeFloat {
			return false
		}
		return t.Matches(s.from) && t.Matches(s.to) && t.Matches(s.step)
	case SettingList:
		for _, d := range s.list {
			if !t.Matches(d) {
				return false
			}
		}
		return true
	default:
		return t.Matches(s.value)
	}
}
