// Package hcl loads program schemas and experiment declarations from HCL
// spec files and translates them into the format-agnostic model.
package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/emallson/waluigi/internal/ctxlog"
	"github.com/emallson/waluigi/internal/model"
)

// Loader is the HCL-specific implementation of the model.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL spec loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the given spec files and merges every program and experiment
// block found into one model. Experiment jobs keep their declaration order
// within a file, and file order follows the given path order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*model.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "file_count", len(paths))

	out := model.NewModel()
	parser := hclparse.NewParser()

	for _, path := range paths {
		hclFile, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %s: %w", path, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode %s: %w", path, diags)
		}

		part := model.NewModel()
		for _, block := range root.Programs {
			prog, err := translateProgram(block)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			if _, exists := part.Programs[prog.Name]; exists {
				return nil, fmt.Errorf("%s: program %q defined more than once", path, prog.Name)
			}
			part.Programs[prog.Name] = prog
		}
		for _, block := range root.Experiments {
			for _, jb := range block.Jobs {
				job, err := translateJob(jb)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", path, err)
				}
				part.Experiment.Jobs = append(part.Experiment.Jobs, job)
			}
		}

		if err := out.Merge(part); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	logger.Debug("HCL loading complete.", "programs", len(out.Programs), "jobs", len(out.Experiment.Jobs))
	return out, nil
}
