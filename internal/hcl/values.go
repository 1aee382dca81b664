package hcl

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/emallson/waluigi/internal/field"
)

// dataFromCty converts an evaluated HCL value into a concrete field value.
// Null maps to the Future placeholder. Numbers always decode as floats:
// HCL does not preserve the distinction between `4` and `4.0`, and the type
// system's integral coercion lets a whole-valued float satisfy a uint field
// anyway.
func dataFromCty(v cty.Value) (field.Data, error) {
	if v.IsNull() {
		return field.Future(), nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return field.Str(v.AsString()), nil
	case ty == cty.Bool:
		return field.Bool(v.True()), nil
	case ty == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return field.Float(f), nil
	default:
		return field.Data{}, fmt.Errorf("unsupported value of type %s", ty.FriendlyName())
	}
}

// settingFromCty converts an evaluated parameter expression into a field
// setting: an object with exactly from/to/step attributes is a range, a
// tuple or list is an explicit value list, and any scalar is a single
// value.
func settingFromCty(v cty.Value) (field.Setting, error) {
	if v.IsNull() {
		return field.Value(field.Future()), nil
	}

	ty := v.Type()
	switch {
	case ty.IsObjectType():
		if !isRangeObject(ty) {
			return field.Setting{}, fmt.Errorf("object settings must have exactly the attributes from, to and step")
		}
		from, err := dataFromCty(v.GetAttr("from"))
		if err != nil {
			return field.Setting{}, fmt.Errorf("range from: %w", err)
		}
		to, err := dataFromCty(v.GetAttr("to"))
		if err != nil {
			return field.Setting{}, fmt.Errorf("range to: %w", err)
		}
		step, err := dataFromCty(v.GetAttr("step"))
		if err != nil {
			return field.Setting{}, fmt.Errorf("range step: %w", err)
		}
		return field.Range(from, to, step), nil

	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		var elems []field.Data
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			d, err := dataFromCty(ev)
			if err != nil {
				return field.Setting{}, err
			}
			elems = append(elems, d)
		}
		return field.List(elems...), nil

	default:
		d, err := dataFromCty(v)
		if err != nil {
			return field.Setting{}, err
		}
		return field.Value(d), nil
	}
}

// isRangeObject reports whether an object type carries exactly the three
// range attributes.
func isRangeObject(ty cty.Type) bool {
	atys := ty.AttributeTypes()
	if len(atys) != 3 {
		return false
	}
	for _, name := range []string{"from", "to", "step"} {
		if _, ok := atys[name]; !ok {
			return false
		}
	}
	return true
}
