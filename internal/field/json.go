package field

import (
	"bytes"
	"fmt"
	"strconv"
)

// Data serializes without a tag, the same way it appears in spec files and
// broker records: Future as null, strings, numbers and booleans as their
// JSON forms.

// MarshalJSON implements json.Marshaler.
func (d Data) MarshalJSON() ([]byte, error) {
	switch d.kind {
	case KindStr:
		return []byte(strconv.Quote(d.str)), nil
	case KindUInt:
		return []byte(strconv.FormatUint(d.u, 10)), nil
	case KindFloat:
		return []byte(strconv.FormatFloat(d.f, 'g', -1, 64)), nil
	case KindBool:
		return []byte(strconv.FormatBool(d.b)), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler. Every number decodes as a
// float, matching the loaders; the uint kind only arises programmatically.
func (d *Data) UnmarshalJSON(raw []byte) error {
	tok := bytes.TrimSpace(raw)
	if len(tok) == 0 {
		return fmt.Errorf("empty value")
	}

	switch {
	case bytes.Equal(tok, []byte("null")):
		*d = Future()
	case bytes.Equal(tok, []byte("true")):
		*d = Bool(true)
	case bytes.Equal(tok, []byte("false")):
		*d = Bool(false)
	case tok[0] == '"':
		s, err := strconv.Unquote(string(tok))
		if err != nil {
			return fmt.Errorf("invalid string value: %w", err)
		}
		*d = Str(s)
	default:
		f, err := strconv.ParseFloat(string(tok), 64)
		if err != nil {
			return fmt.Errorf("invalid numeric value %q: %w", tok, err)
		}
		*d = Float(f)
	}
	return nil
}
