// Package planner turns an experiment's ordered job declarations into a
// flat, ID-addressed list of concrete job instances with resolved command
// lines and dependency references, ready to hand off to an execution broker.
package planner

import "github.com/emallson/waluigi/internal/field"

// Instance is one fully resolved unit of planned work. Instances are
// immutable once created; the planner is their sole producer.
type Instance struct {
	// ID is globally unique and monotonically assigned within one
	// planning pass.
	ID int `json:"id"`
	// Command is the fully rendered command line.
	Command string `json:"command"`
	// Params is the resolved concrete parameter map, including any Future
	// placeholders inherited from dependency outputs.
	Params map[string]field.Data `json:"params"`
	// Log is reserved for the broker to fill in.
	Log string `json:"log"`
	// Depends lists the IDs of instances this instance fans out over.
	// Every entry was emitted earlier in the same planning pass.
	Depends []int `json:"depends"`
	// Threads is the planner-wide concurrency hint, copied verbatim.
	Threads int `json:"threads"`
}
