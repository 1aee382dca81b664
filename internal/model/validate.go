package model

import (
	"sort"

	"github.com/emallson/waluigi/internal/field"
)

// sortedFieldNames gives validation a deterministic walk order, so the same
// malformed spec always reports the same first failure.
func (p *Program) sortedFieldNames() []string {
	names := make([]string, 0, len(p.Fields))
	for name := range p.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateParameters checks a settings map against the program's declared
// fields at plan time. Every field without an option template must be
// present, and every present setting must be type-compatible.
func (p *Program) ValidateParameters(settings map[string]field.Setting) error {
	for _, name := range p.sortedFieldNames() {
		f := p.Fields[name]

		setting, present := settings[name]
		if !present {
			if !f.HasOption() {
				return &MissingParameterError{Field: name, Program: p.Name}
			}
			continue
		}

		if !f.Type.MatchesSetting(setting) {
			return &InvalidParameterSettingError{Field: name, Setting: setting, Type: f.Type}
		}
	}
	return nil
}

// ValidateDependentParameters checks only the settings a dependent job
// supplies itself. Required fields may still arrive from a dependency's
// resolved parameters or outputs, so absence is not an error here; a
// present but type-incompatible setting still is.
func (p *Program) ValidateDependentParameters(settings map[string]field.Setting) error {
	for _, name := range p.sortedFieldNames() {
		f := p.Fields[name]

		setting, present := settings[name]
		if !present {
			continue
		}

		if !f.Type.MatchesSetting(setting) {
			return &InvalidParameterSettingError{Field: name, Setting: setting, Type: f.Type}
		}
	}
	return nil
}

// ValidateParameterData checks a concrete data map against the program's
// declared fields at dependency-resolution time. Same shape as
// ValidateParameters, but "present" means a concrete value, possibly a
// Future inherited from a dependency's outputs.
func (p *Program) ValidateParameterData(data map[string]field.Data) error {
	for _, name := range p.sortedFieldNames() {
		f := p.Fields[name]

		datum, present := data[name]
		if !present {
			if !f.HasOption() {
				return &MissingParameterError{Field: name, Program: p.Name}
			}
			continue
		}

		if !f.Matches(datum) {
			return &InvalidParameterDataError{Field: name, Datum: datum, Type: f.Type}
		}
	}
	return nil
}
