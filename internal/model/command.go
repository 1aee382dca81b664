package model

import (
	"regexp"
	"sort"
	"strings"

	"github.com/emallson/waluigi/internal/field"
)

// optionPlaceholder matches the first angle-bracket slot in an option
// template, e.g. the "<delta>" in "--delta <delta>".
var optionPlaceholder = regexp.MustCompile(`<.+?>`)

// Fill renders a single bound value into its command-line fragment. The
// type check is repeated here independently of any earlier validation, so
// Fill is safe to call without a precondition.
//
// Without an option template the plain string form of the value is
// returned. With one, a false boolean suppresses the flag entirely, a true
// boolean emits the template verbatim, and any other value replaces the
// template's first <...> placeholder.
func (f *Field) Fill(datum field.Data) (string, error) {
	if !f.Matches(datum) {
		return "", &FieldMismatchError{Type: f.Type, Datum: datum}
	}

	if !f.HasOption() {
		return datum.String(), nil
	}

	if b, ok := datum.AsBool(); ok {
		if b {
			return f.Option, nil
		}
		return "", nil
	}

	loc := optionPlaceholder.FindStringIndex(f.Option)
	if loc == nil {
		return f.Option, nil
	}
	return f.Option[:loc[0]] + datum.String() + f.Option[loc[1]:], nil
}

// Cmd builds the full command line for one concrete parameter assignment.
// It starts from "{bin} {format}" and walks the parameter names in sorted
// order: positional fields replace their <name> placeholder in place,
// option fields append their rendered fragment. Parameters the program does
// not declare, or whose value does not match the field's type, are skipped
// silently; validation is a separate earlier step.
func (p *Program) Cmd(params map[string]field.Data) (string, error) {
	cmd := p.Bin + " " + p.Format

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		f, ok := p.Fields[name]
		if !ok || !f.Matches(params[name]) {
			continue
		}

		filled, err := f.Fill(params[name])
		if err != nil {
			return "", err
		}

		if f.HasOption() {
			if filled != "" {
				cmd += " " + filled
			}
		} else {
			cmd = strings.ReplaceAll(cmd, "<"+name+">", filled)
		}
	}

	return cmd, nil
}
