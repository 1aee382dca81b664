package yaml

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emallson/waluigi/internal/field"
	"github.com/emallson/waluigi/internal/model"
)

func writeSpec(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadProgram(t *testing.T) {
	t.Parallel()

	path := writeSpec(t, "sim.yaml", `
name: sim
bin: sim.py
format: "<n> <seed>"
fields:
  n:
    type: uint
  seed:
    type: uint
    aka: [s]
  delta:
    type: float
    option: "--delta <delta>"
  tags:
    type: str
    batch:
      join: ","
outputs:
  result:
    msg: "result="
    aka: [res]
`)

	m, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	prog, ok := m.Programs["sim"]
	require.True(t, ok)
	assert.Equal(t, "sim.py", prog.Bin)
	assert.Equal(t, "<n> <seed>", prog.Format)
	require.Len(t, prog.Fields, 4)

	assert.Equal(t, field.TypeUInt, prog.Fields["n"].Type)
	assert.Equal(t, []string{"s"}, prog.Fields["seed"].Aka)
	assert.Equal(t, "--delta <delta>", prog.Fields["delta"].Option)
	assert.Equal(t, model.BatchJoin, prog.Fields["tags"].Batch.Kind)
	assert.Equal(t, ",", prog.Fields["tags"].Batch.Sep)

	require.Len(t, prog.Outputs, 1)
	assert.Equal(t, "result=", prog.Outputs["result"].Msg)
}

func TestLoadExperiment(t *testing.T) {
	t.Parallel()

	path := writeSpec(t, "exp.yaml", `
jobs:
  - run: sim
    parameters:
      n:
        from: 0
        to: 4
        step: 2
      delta: [0.1, 0.2]
      label: baseline
    repetitions: 2
  - run: analyze
    on_each: [sim]
`)

	m, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, m.Experiment.Jobs, 2)

	sim := m.Experiment.Jobs[0]
	assert.Equal(t, "sim", sim.Run)
	assert.Equal(t, 2, sim.Repetitions)
	assert.False(t, sim.HasDepends())

	assert.Equal(t, field.SettingRange, sim.Parameters["n"].Kind())
	assert.Equal(t,
		[]field.Data{field.Float(0), field.Float(2), field.Float(4)},
		sim.Parameters["n"].Vectorize(), "numbers decode as floats")
	assert.Equal(t, []field.Data{field.Str("baseline")}, sim.Parameters["label"].Vectorize())

	analyze := m.Experiment.Jobs[1]
	assert.True(t, analyze.HasDepends())
	assert.Equal(t, []string{"sim"}, analyze.OnEach)
}

func TestLoadMultiDocument(t *testing.T) {
	t.Parallel()

	path := writeSpec(t, "all.yaml", `
name: sim
bin: sim.py
format: "<n>"
fields:
  n:
    type: uint
---
jobs:
  - run: sim
    parameters:
      n: 3
`)

	m, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, m.Programs, 1)
	require.Len(t, m.Experiment.Jobs, 1)
	assert.Equal(t,
		[]field.Data{field.Float(3)},
		m.Experiment.Jobs[0].Parameters["n"].Vectorize())
}

func TestLoadNullParameterIsFuture(t *testing.T) {
	t.Parallel()

	path := writeSpec(t, "exp.yaml", `
jobs:
  - run: sim
    parameters:
      input: null
`)

	m, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, m.Experiment.Jobs, 1)
	assert.Equal(t,
		[]field.Data{field.Future()},
		m.Experiment.Jobs[0].Parameters["input"].Vectorize())
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "not a mapping",
			content:  "- just\n- a\n- list\n",
			expected: "must be a mapping",
		},
		{
			name: "unknown job key",
			content: `
jobs:
  - run: sim
    reps: 2
`,
			expected: `unknown key "reps"`,
		},
		{
			name: "unknown field key",
			content: `
name: sim
bin: sim.py
format: "<n>"
fields:
  n:
    type: uint
    flag: true
`,
			expected: `unknown key "flag"`,
		},
		{
			name: "missing program bin",
			content: `
name: sim
format: "<n>"
`,
			expected: "program missing bin",
		},
		{
			name: "range missing step",
			content: `
jobs:
  - run: sim
    parameters:
      n:
        from: 0
        to: 4
`,
			expected: `missing "step"`,
		},
		{
			name: "negative repetitions",
			content: `
jobs:
  - run: sim
    repetitions: -2
`,
			expected: "invalid repetitions",
		},
		{
			name: "bad batch policy",
			content: `
name: sim
bin: sim.py
format: "<n>"
fields:
  n:
    type: uint
    batch: sometimes
`,
			expected: "unknown batch policy",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeSpec(t, "bad.yaml", tc.content)
			_, err := NewLoader().Load(context.Background(), path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expected)
		})
	}
}

func TestLoadDuplicateProgramAcrossFiles(t *testing.T) {
	t.Parallel()

	content := `
name: sim
bin: sim.py
format: "<n>"
fields:
  n:
    type: uint
`
	a := writeSpec(t, "a.yaml", content)
	b := writeSpec(t, "b.yaml", content)

	_, err := NewLoader().Load(context.Background(), a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than once")
}
