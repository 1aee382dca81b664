package model

import (
	"fmt"
	"strings"

	"github.com/emallson/waluigi/internal/field"
)

// All spec-level failures are typed errors so callers can pick them apart
// with errors.As. None of them is recoverable mid-plan: a failed job aborts
// the whole planning pass.

// FieldMismatchError reports a value that does not satisfy a field's
// declared type at fill time.
type FieldMismatchError struct {
	Type  field.Type
	Datum field.Data
}

func (e *FieldMismatchError) Error() string {
	return fmt.Sprintf("field of type %s did not match datum %s used to fill it", e.Type, e.Datum.Describe())
}

// InvalidProgramError reports a job naming a program not present in the
// resolved program table.
type InvalidProgramError struct {
	Name  string
	Known []string
}

func (e *InvalidProgramError) Error() string {
	return fmt.Sprintf("unknown program %q in experiment; available: %s", e.Name, strings.Join(e.Known, ", "))
}

// MissingParameterError reports a required field with no setting or datum
// supplied.
type MissingParameterError struct {
	Field   string
	Program string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("parameter %q missing for program %q", e.Field, e.Program)
}

// InvalidParameterSettingError reports a supplied setting that fails type
// compatibility against the field's declared type.
type InvalidParameterSettingError struct {
	Field   string
	Setting field.Setting
	Type    field.Type
}

func (e *InvalidParameterSettingError) Error() string {
	return fmt.Sprintf("invalid setting %s for field %q of type %s", e.Setting, e.Field, e.Type)
}

// InvalidParameterDataError reports a supplied concrete value that fails
// type compatibility against the field's declared type.
type InvalidParameterDataError struct {
	Field string
	Datum field.Data
	Type  field.Type
}

func (e *InvalidParameterDataError) Error() string {
	return fmt.Sprintf("invalid value %s for field %q of type %s", e.Datum.Describe(), e.Field, e.Type)
}

// UnknownDependencyError reports a job whose on_each list names a job that
// no previous declaration provides.
type UnknownDependencyError struct {
	Job        string
	Dependency string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("job %q lists %q as a dependency, but no previous job provides %q", e.Job, e.Dependency, e.Dependency)
}
