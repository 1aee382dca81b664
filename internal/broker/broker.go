// Package broker serializes planned job instances into the handoff format
// consumed by an external execution broker: one self-contained JSON record
// per line.
package broker

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kballard/go-shellquote"

	"github.com/emallson/waluigi/internal/field"
	"github.com/emallson/waluigi/internal/planner"
)

// Record is the wire form of one planned instance. Every planner field
// round-trips losslessly; argv is a convenience split of the command line
// for brokers that exec directly, and stays null when the command does not
// split under shell quoting rules.
type Record struct {
	ID      int                   `json:"id"`
	Command string                `json:"command"`
	Argv    []string              `json:"argv"`
	Params  map[string]field.Data `json:"params"`
	Log     string                `json:"log"`
	Depends []int                 `json:"depends"`
	Threads int                   `json:"threads"`
}

// NewRecord converts a planned instance into its wire form.
func NewRecord(inst *planner.Instance) *Record {
	rec := &Record{
		ID:      inst.ID,
		Command: inst.Command,
		Params:  inst.Params,
		Log:     inst.Log,
		Depends: inst.Depends,
		Threads: inst.Threads,
	}
	if argv, err := shellquote.Split(inst.Command); err == nil {
		rec.Argv = argv
	}
	return rec
}

// Write emits one record per instance to w, newline-delimited.
func Write(w io.Writer, instances []*planner.Instance) error {
	enc := json.NewEncoder(w)
	for _, inst := range instances {
		if err := enc.Encode(NewRecord(inst)); err != nil {
			return fmt.Errorf("failed to encode instance %d: %w", inst.ID, err)
		}
	}
	return nil
}
