package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/emallson/waluigi/internal/field"
	"github.com/emallson/waluigi/internal/model"
)

// translateProgram converts an HCL program block into the agnostic model.
func translateProgram(block *programBlock) (*model.Program, error) {
	prog := &model.Program{
		Name:    block.Name,
		Bin:     block.Bin,
		Format:  block.Format,
		Outputs: make(map[string]*model.Output, len(block.Outputs)),
		Fields:  make(map[string]*model.Field, len(block.Fields)),
	}

	for _, fb := range block.Fields {
		if _, exists := prog.Fields[fb.Name]; exists {
			return nil, fmt.Errorf("program %q declares field %q more than once", block.Name, fb.Name)
		}
		f, err := translateField(fb)
		if err != nil {
			return nil, fmt.Errorf("program %q, field %q: %w", block.Name, fb.Name, err)
		}
		prog.Fields[fb.Name] = f
	}

	for _, ob := range block.Outputs {
		if _, exists := prog.Outputs[ob.Name]; exists {
			return nil, fmt.Errorf("program %q declares output %q more than once", block.Name, ob.Name)
		}
		prog.Outputs[ob.Name] = &model.Output{Msg: ob.Msg, Aka: ob.Aka}
	}

	return prog, nil
}

func translateField(block *fieldBlock) (*model.Field, error) {
	dtype, err := field.ParseType(block.Type)
	if err != nil {
		return nil, err
	}

	f := &model.Field{Type: dtype, Aka: block.Aka}
	if block.Option != nil {
		f.Option = *block.Option
	}

	batch, err := translateBatch(block.Batch)
	if err != nil {
		return nil, err
	}
	f.Batch = batch

	return f, nil
}

// translateBatch decodes the forward-compatible batch policy attribute:
// absent or "none" means no batching, "max" selects the max policy, and an
// object of the form { join = "," } selects joining with a separator.
func translateBatch(expr hcl.Expression) (model.BatchPolicy, error) {
	if expr == nil {
		return model.BatchPolicy{}, nil
	}

	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return model.BatchPolicy{}, fmt.Errorf("invalid batch policy: %w", diags)
	}
	// gohcl hands an absent optional attribute to us as a synthetic
	// expression evaluating to null, not as a nil expression.
	if v.IsNull() {
		return model.BatchPolicy{}, nil
	}

	switch {
	case v.Type() == cty.String:
		switch v.AsString() {
		case "none":
			return model.BatchPolicy{}, nil
		case "max":
			return model.BatchPolicy{Kind: model.BatchMax}, nil
		default:
			return model.BatchPolicy{}, fmt.Errorf("unknown batch policy %q (want \"none\", \"max\" or { join = ... })", v.AsString())
		}
	case v.Type().IsObjectType() && v.Type().HasAttribute("join"):
		join := v.GetAttr("join")
		if join.Type() != cty.String {
			return model.BatchPolicy{}, fmt.Errorf("batch join separator must be a string")
		}
		return model.BatchPolicy{Kind: model.BatchJoin, Sep: join.AsString()}, nil
	default:
		return model.BatchPolicy{}, fmt.Errorf("batch policy must be a keyword or { join = ... }")
	}
}

// translateJob converts an HCL job block into the agnostic model. The
// parameters block's attribute expressions are evaluated without a context;
// settings are literals, not references.
func translateJob(block *jobBlock) (*model.Job, error) {
	job := &model.Job{
		Run:        block.Run,
		Parameters: make(map[string]field.Setting),
		OnEach:     block.OnEach,
	}
	if block.Repetitions != nil {
		if *block.Repetitions < 0 {
			return nil, fmt.Errorf("job %q: repetitions must not be negative", block.Run)
		}
		job.Repetitions = *block.Repetitions
	}

	if block.Parameters != nil && block.Parameters.Body != nil {
		attrs, diags := block.Parameters.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("job %q: %w", block.Run, diags)
		}
		for name, attr := range attrs {
			v, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("job %q, parameter %q: %w", block.Run, name, diags)
			}
			setting, err := settingFromCty(v)
			if err != nil {
				return nil, fmt.Errorf("job %q, parameter %q: %w", block.Run, name, err)
			}
			job.Parameters[name] = setting
		}
	}

	return job, nil
}
