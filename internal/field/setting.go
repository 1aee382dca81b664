package field

import (
	"fmt"
	"strings"
)

// SettingKind discriminates the variants of a Setting.
type SettingKind int

const (
	SettingValue SettingKind = iota
	SettingList
	SettingRange
)

// Setting declares the value or values a field may take in a job spec:
// a single value, an explicit list, or an inclusive arithmetic range.
type Setting struct {
	kind  SettingKind
	value Data
	list  []Data
	from  Data
	to    Data
	step  Data
}

// Value declares a single concrete value.
func Value(d Data) Setting { return Setting{kind: SettingValue, value: d} }

// List declares an explicit ordered sequence of values.
func List(ds ...Data) Setting { return Setting{kind: SettingList, list: ds} }

// Range declares an inclusive arithmetic progression from `from` to `to`
// in increments of `step`. Only meaningful over uint or float data.
func Range(from, to, step Data) Setting {
	return Setting{kind: SettingRange, from: from, to: to, step: step}
}

// Kind reports which variant this setting holds.
func (s Setting) Kind() SettingKind { return s.kind }

func (s Setting) String() string {
	switch s.kind {
	case SettingRange:
		return fmt.Sprintf("range(from: %s, to: %s, step: %s)",
			s.from.Describe(), s.to.Describe(), s.step.Describe())
	case SettingList:
		parts := make([]string, len(s.list))
		for i, d := range s.list {
			parts[i] = d.Describe()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return s.value.Describe()
	}
}

// Vectorize expands the setting into the concrete ordered sequence of values
// it declares. A Value yields itself, a List yields its elements in order,
// and a Range yields the progression from..to inclusive. Float progressions
// accumulate the step directly and carry ordinary floating-point error.
//
// A range whose endpoints are not numeric yields nothing; type validation
// rejects such settings before planning. A zero step yields only the start
// value rather than looping forever.
func (s Setting) Vectorize() []Data {
	switch s.kind {
	case SettingValue:
		return []Data{s.value}
	case SettingList:
		out := make([]Data, len(s.list))
		copy(out, s.list)
		return out
	case SettingRange:
		return s.vectorizeRange()
	default:
		return nil
	}
}

func (s Setting) vectorizeRange() []Data {
	if s.from.Kind() == KindUInt {
		start := s.from.u
		end, ok := s.to.AsUInt()
		if !ok {
			return nil
		}
		step, ok := s.step.AsUInt()
		if !ok {
			return nil
		}

		var out []Data
		for cur := start; cur <= end; cur += step {
			out = append(out, UInt(cur))
			if step == 0 {
				break
			}
		}
		return out
	}

	start, ok := s.from.AsFloat()
	if !ok {
		return nil
	}
	end, ok := s.to.AsFloat()
	if !ok {
		return nil
	}
	step, ok := s.step.AsFloat()
	if !ok {
		return nil
	}

	var out []Data
	for cur := start; cur <= end; cur += step {
		out = append(out, Float(cur))
		if step == 0 {
			break
		}
	}
	return out
}
