package yaml

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/emallson/waluigi/internal/field"
	"github.com/emallson/waluigi/internal/model"
)

// The decoders below walk yaml.Node trees directly instead of relying on
// struct tags: settings and batch policies are untagged unions, and unknown
// mapping keys must be rejected rather than silently dropped.

// mapEntries iterates a mapping node's key/value pairs, rejecting keys
// outside the allowed set.
func mapEntries(node *yaml.Node, what string, allowed ...string) (map[string]*yaml.Node, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: %s must be a mapping", node.Line, what)
	}

	ok := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		ok[k] = struct{}{}
	}

	entries := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if _, known := ok[key]; !known {
			return nil, fmt.Errorf("line %d: unknown key %q in %s", node.Content[i].Line, key, what)
		}
		if _, dup := entries[key]; dup {
			return nil, fmt.Errorf("line %d: duplicate key %q in %s", node.Content[i].Line, key, what)
		}
		entries[key] = node.Content[i+1]
	}
	return entries, nil
}

func hasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}

func decodeString(node *yaml.Node, what string) (string, error) {
	if node.Kind != yaml.ScalarNode || node.Tag != "!!str" {
		return "", fmt.Errorf("line %d: %s must be a string", node.Line, what)
	}
	return node.Value, nil
}

func decodeStringList(node *yaml.Node, what string) ([]string, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: %s must be a sequence of strings", node.Line, what)
	}
	out := make([]string, 0, len(node.Content))
	for _, elem := range node.Content {
		s, err := decodeString(elem, what)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// decodeData converts a scalar node into a concrete field value: null is
// the Future placeholder, and every number decodes as a float. The uint
// kind only arises from repetition tags; integral coercion lets a whole
// float satisfy a uint field.
func decodeData(node *yaml.Node) (field.Data, error) {
	if node.Kind != yaml.ScalarNode {
		return field.Data{}, fmt.Errorf("line %d: expected a scalar value", node.Line)
	}

	switch node.Tag {
	case "!!null":
		return field.Future(), nil
	case "!!str":
		return field.Str(node.Value), nil
	case "!!bool":
		b, err := strconv.ParseBool(node.Value)
		if err != nil {
			return field.Data{}, fmt.Errorf("line %d: invalid boolean %q", node.Line, node.Value)
		}
		return field.Bool(b), nil
	case "!!int", "!!float":
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return field.Data{}, fmt.Errorf("line %d: invalid number %q", node.Line, node.Value)
		}
		return field.Float(f), nil
	default:
		return field.Data{}, fmt.Errorf("line %d: unsupported value tag %s", node.Line, node.Tag)
	}
}

// decodeSetting converts a parameter node into a field setting.
func decodeSetting(node *yaml.Node) (field.Setting, error) {
	switch node.Kind {
	case yaml.MappingNode:
		entries, err := mapEntries(node, "range setting", "from", "to", "step")
		if err != nil {
			return field.Setting{}, err
		}
		for _, k := range []string{"from", "to", "step"} {
			if _, ok := entries[k]; !ok {
				return field.Setting{}, fmt.Errorf("line %d: range setting missing %q", node.Line, k)
			}
		}
		from, err := decodeData(entries["from"])
		if err != nil {
			return field.Setting{}, err
		}
		to, err := decodeData(entries["to"])
		if err != nil {
			return field.Setting{}, err
		}
		step, err := decodeData(entries["step"])
		if err != nil {
			return field.Setting{}, err
		}
		return field.Range(from, to, step), nil

	case yaml.SequenceNode:
		elems := make([]field.Data, 0, len(node.Content))
		for _, elem := range node.Content {
			d, err := decodeData(elem)
			if err != nil {
				return field.Setting{}, err
			}
			elems = append(elems, d)
		}
		return field.List(elems...), nil

	default:
		d, err := decodeData(node)
		if err != nil {
			return field.Setting{}, err
		}
		return field.Value(d), nil
	}
}

// decodeBatch converts the forward-compatible batch policy: the keywords
// "none" and "max", or a mapping { join: "," }.
func decodeBatch(node *yaml.Node) (model.BatchPolicy, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Value {
		case "none":
			return model.BatchPolicy{}, nil
		case "max":
			return model.BatchPolicy{Kind: model.BatchMax}, nil
		default:
			return model.BatchPolicy{}, fmt.Errorf("line %d: unknown batch policy %q", node.Line, node.Value)
		}
	case yaml.MappingNode:
		entries, err := mapEntries(node, "batch policy", "join")
		if err != nil {
			return model.BatchPolicy{}, err
		}
		joinNode, ok := entries["join"]
		if !ok {
			return model.BatchPolicy{}, fmt.Errorf("line %d: batch policy mapping must carry join", node.Line)
		}
		sep, err := decodeString(joinNode, "batch join separator")
		if err != nil {
			return model.BatchPolicy{}, err
		}
		return model.BatchPolicy{Kind: model.BatchJoin, Sep: sep}, nil
	default:
		return model.BatchPolicy{}, fmt.Errorf("line %d: batch policy must be a keyword or { join: ... }", node.Line)
	}
}

func decodeField(node *yaml.Node) (*model.Field, error) {
	entries, err := mapEntries(node, "field", "type", "aka", "option", "batch")
	if err != nil {
		return nil, err
	}

	typeNode, ok := entries["type"]
	if !ok {
		return nil, fmt.Errorf("line %d: field missing type", node.Line)
	}
	keyword, err := decodeString(typeNode, "field type")
	if err != nil {
		return nil, err
	}
	dtype, err := field.ParseType(keyword)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", typeNode.Line, err)
	}

	f := &model.Field{Type: dtype}
	if akaNode, ok := entries["aka"]; ok {
		if f.Aka, err = decodeStringList(akaNode, "field alias"); err != nil {
			return nil, err
		}
	}
	if optNode, ok := entries["option"]; ok {
		if f.Option, err = decodeString(optNode, "field option"); err != nil {
			return nil, err
		}
	}
	if batchNode, ok := entries["batch"]; ok {
		if f.Batch, err = decodeBatch(batchNode); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func decodeOutput(node *yaml.Node) (*model.Output, error) {
	entries, err := mapEntries(node, "output", "msg", "aka")
	if err != nil {
		return nil, err
	}

	msgNode, ok := entries["msg"]
	if !ok {
		return nil, fmt.Errorf("line %d: output missing msg", node.Line)
	}

	out := &model.Output{}
	if out.Msg, err = decodeString(msgNode, "output msg"); err != nil {
		return nil, err
	}
	if akaNode, ok := entries["aka"]; ok {
		if out.Aka, err = decodeStringList(akaNode, "output alias"); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func decodeProgram(node *yaml.Node) (*model.Program, error) {
	entries, err := mapEntries(node, "program", "name", "bin", "format", "outputs", "fields")
	if err != nil {
		return nil, err
	}

	prog := &model.Program{
		Outputs: make(map[string]*model.Output),
		Fields:  make(map[string]*model.Field),
	}
	for _, key := range []string{"name", "bin", "format"} {
		valNode, ok := entries[key]
		if !ok {
			return nil, fmt.Errorf("line %d: program missing %s", node.Line, key)
		}
		val, err := decodeString(valNode, "program "+key)
		if err != nil {
			return nil, err
		}
		switch key {
		case "name":
			prog.Name = val
		case "bin":
			prog.Bin = val
		case "format":
			prog.Format = val
		}
	}

	if outsNode, ok := entries["outputs"]; ok {
		if outsNode.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: outputs must be a mapping", outsNode.Line)
		}
		for i := 0; i+1 < len(outsNode.Content); i += 2 {
			name := outsNode.Content[i].Value
			out, err := decodeOutput(outsNode.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("output %q: %w", name, err)
			}
			prog.Outputs[name] = out
		}
	}

	if fieldsNode, ok := entries["fields"]; ok {
		if fieldsNode.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: fields must be a mapping", fieldsNode.Line)
		}
		for i := 0; i+1 < len(fieldsNode.Content); i += 2 {
			name := fieldsNode.Content[i].Value
			f, err := decodeField(fieldsNode.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
			prog.Fields[name] = f
		}
	}

	return prog, nil
}

func decodeJob(node *yaml.Node) (*model.Job, error) {
	entries, err := mapEntries(node, "job", "run", "parameters", "repetitions", "on_each")
	if err != nil {
		return nil, err
	}

	runNode, ok := entries["run"]
	if !ok {
		return nil, fmt.Errorf("line %d: job missing run", node.Line)
	}

	job := &model.Job{Parameters: make(map[string]field.Setting)}
	if job.Run, err = decodeString(runNode, "job run"); err != nil {
		return nil, err
	}

	if paramsNode, ok := entries["parameters"]; ok {
		if paramsNode.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: parameters must be a mapping", paramsNode.Line)
		}
		for i := 0; i+1 < len(paramsNode.Content); i += 2 {
			name := paramsNode.Content[i].Value
			setting, err := decodeSetting(paramsNode.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %w", name, err)
			}
			job.Parameters[name] = setting
		}
	}

	if repsNode, ok := entries["repetitions"]; ok {
		if repsNode.Kind != yaml.ScalarNode || repsNode.Tag != "!!int" {
			return nil, fmt.Errorf("line %d: repetitions must be an integer", repsNode.Line)
		}
		reps, err := strconv.Atoi(repsNode.Value)
		if err != nil || reps < 0 {
			return nil, fmt.Errorf("line %d: invalid repetitions %q", repsNode.Line, repsNode.Value)
		}
		job.Repetitions = reps
	}

	if eachNode, ok := entries["on_each"]; ok {
		deps, err := decodeStringList(eachNode, "on_each entry")
		if err != nil {
			return nil, err
		}
		if deps == nil {
			deps = []string{}
		}
		job.OnEach = deps
	}

	return job, nil
}

func decodeExperiment(node *yaml.Node) ([]*model.Job, error) {
	entries, err := mapEntries(node, "experiment", "jobs")
	if err != nil {
		return nil, err
	}

	jobsNode := entries["jobs"]
	if jobsNode.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: jobs must be a sequence", jobsNode.Line)
	}

	jobs := make([]*model.Job, 0, len(jobsNode.Content))
	for _, jobNode := range jobsNode.Content {
		job, err := decodeJob(jobNode)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
