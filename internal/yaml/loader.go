// Package yaml loads program schemas and experiment declarations from YAML
// spec files and translates them into the format-agnostic model. The YAML
// surface keeps the untagged conventions of the spec format: a mapping with
// exactly from/to/step is a range, a sequence is a value list, and any
// scalar is a single value.
package yaml

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/emallson/waluigi/internal/ctxlog"
	"github.com/emallson/waluigi/internal/model"
)

// Loader is the YAML-specific implementation of the model.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML spec loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the given spec files and merges every document found into one
// model. A document carrying a `jobs` key is an experiment; anything else
// must be a program schema. Files may hold multiple documents.
func (l *Loader) Load(ctx context.Context, paths ...string) (*model.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "file_count", len(paths))

	out := model.NewModel()
	for _, path := range paths {
		part, err := l.loadFile(path)
		if err != nil {
			return nil, err
		}
		if err := out.Merge(part); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	logger.Debug("YAML loading complete.", "programs", len(out.Programs), "jobs", len(out.Experiment.Jobs))
	return out, nil
}

func (l *Loader) loadFile(path string) (*model.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := model.NewModel()
	dec := yaml.NewDecoder(f)
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		root := &doc
		if root.Kind == yaml.DocumentNode && len(root.Content) == 1 {
			root = root.Content[0]
		}
		if root.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%s: spec document must be a mapping", path)
		}

		if hasKey(root, "jobs") {
			jobs, err := decodeExperiment(root)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			out.Experiment.Jobs = append(out.Experiment.Jobs, jobs...)
			continue
		}

		prog, err := decodeProgram(root)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if _, exists := out.Programs[prog.Name]; exists {
			return nil, fmt.Errorf("%s: program %q defined more than once", path, prog.Name)
		}
		out.Programs[prog.Name] = prog
	}
	return out, nil
}
