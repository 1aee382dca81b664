// Package model holds the format-agnostic representation of program schemas
// and experiment declarations, together with the schema-level behavior:
// filling command templates, building command lines, and validating
// parameter settings and data against a program's declared fields.
package model

import (
	"context"
	"fmt"

	"github.com/emallson/waluigi/internal/field"
)

// BatchKind discriminates the batch policies a field may declare.
type BatchKind int

const (
	BatchNone BatchKind = iota
	BatchMax
	BatchJoin
)

// BatchPolicy is declared per field in program schemas. Nothing consumes it
// yet; it is carried through loaders and output for forward compatibility.
type BatchPolicy struct {
	Kind BatchKind
	Sep  string
}

// Field is one typed parameter slot of a Program.
type Field struct {
	// Type constrains the values and settings that may bind to this field.
	Type field.Type
	// Aka lists informational aliases for the field name.
	Aka []string
	// Option, when non-empty, renders the field as a CLI option template
	// instead of a positional placeholder, and makes the field optional.
	Option string
	// Batch is schema metadata; see BatchPolicy.
	Batch BatchPolicy
}

// HasOption reports whether the field renders as an appended CLI option.
func (f *Field) HasOption() bool { return f.Option != "" }

// Matches reports whether a concrete value satisfies the field's type.
func (f *Field) Matches(d field.Data) bool { return f.Type.Matches(d) }

// Output names a value a job of a program is expected to produce.
type Output struct {
	Msg string
	Aka []string
}

// Program is the schema of one runnable command template. It is immutable
// once loaded and shared read-only by the planner across all jobs that
// reference it.
type Program struct {
	Name    string
	Bin     string
	Format  string
	Outputs map[string]*Output
	Fields  map[string]*Field
}

// Job is one declared unit of work in an experiment.
type Job struct {
	// Run names the program this job executes.
	Run string
	// Parameters maps field names to the settings declared for them.
	Parameters map[string]field.Setting
	// Repetitions replicates the expanded parameter batch; zero means one.
	Repetitions int
	// OnEach names prior jobs whose instances this job fans out over.
	// A nil slice means the job has no dependencies; an empty non-nil
	// slice is a declared-but-empty dependency list.
	OnEach []string
}

// HasDepends reports whether the job declared a dependency list.
func (j *Job) HasDepends() bool { return j.OnEach != nil }

// Experiment is an ordered sequence of jobs. Order is significant: a job may
// only depend on jobs that appear strictly before it.
type Experiment struct {
	Jobs []*Job
}

// Model is the unified result of loading spec files: the program table and
// the experiment to plan against it.
type Model struct {
	Programs   map[string]*Program
	Experiment *Experiment
}

// NewModel returns an empty model ready to merge loader output into.
func NewModel() *Model {
	return &Model{
		Programs:   make(map[string]*Program),
		Experiment: &Experiment{},
	}
}

// Merge folds another loaded model into this one. Programs must be uniquely
// named across all spec files; experiment jobs concatenate in load order.
func (m *Model) Merge(other *Model) error {
	for name, prog := range other.Programs {
		if _, exists := m.Programs[name]; exists {
			return fmt.Errorf("program %q defined more than once", name)
		}
		m.Programs[name] = prog
	}
	if other.Experiment != nil {
		m.Experiment.Jobs = append(m.Experiment.Jobs, other.Experiment.Jobs...)
	}
	return nil
}

// Loader is the interface for a format-specific spec-file loader.
type Loader interface {
	// Load parses the given files and translates them into the
	// format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
