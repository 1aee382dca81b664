package hcl

import "github.com/hashicorp/hcl/v2"

// HCL tag structs mirroring the spec-file surface. They exist only to carry
// parsed blocks to the translate step; the rest of the system works on the
// format-agnostic model.

// fileRoot decodes all possible top-level blocks from any spec file, so
// programs and the experiment may be spread over many files.
type fileRoot struct {
	Programs    []*programBlock    `hcl:"program,block"`
	Experiments []*experimentBlock `hcl:"experiment,block"`
	Remain      hcl.Body           `hcl:",remain"`
}

// programBlock is one `program "name" { ... }` schema block.
type programBlock struct {
	Name    string         `hcl:"name,label"`
	Bin     string         `hcl:"bin"`
	Format  string         `hcl:"format"`
	Fields  []*fieldBlock  `hcl:"field,block"`
	Outputs []*outputBlock `hcl:"output,block"`
}

// fieldBlock is one `field "name" { ... }` block inside a program.
type fieldBlock struct {
	Name   string         `hcl:"name,label"`
	Type   string         `hcl:"type"`
	Aka    []string       `hcl:"aka,optional"`
	Option *string        `hcl:"option,optional"`
	Batch  hcl.Expression `hcl:"batch,optional"`
}

// outputBlock is one `output "name" { ... }` block inside a program.
type outputBlock struct {
	Name string   `hcl:"name,label"`
	Msg  string   `hcl:"msg"`
	Aka  []string `hcl:"aka,optional"`
}

// experimentBlock holds the ordered job declarations.
type experimentBlock struct {
	Jobs []*jobBlock `hcl:"job,block"`
}

// jobBlock is one `job { ... }` declaration.
type jobBlock struct {
	Run         string       `hcl:"run"`
	Parameters  *paramsBlock `hcl:"parameters,block"`
	Repetitions *int         `hcl:"repetitions,optional"`
	OnEach      []string     `hcl:"on_each,optional"`
}

// paramsBlock captures the parameter attributes without evaluating them;
// each attribute expression becomes one field setting.
type paramsBlock struct {
	Body hcl.Body `hcl:",remain"`
}
