package app

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pipelineHCL = `
program "gen" {
  bin    = "gen.py"
  format = "<n>"

  field "n" {
    type = "uint"
  }

  output "out" {
    msg = "out="
  }
}

program "use" {
  bin    = "use.py"
  format = "<m> <out>"

  field "m" {
    type = "uint"
  }

  field "out" {
    type = "str"
  }
}
`

const pipelineYAMLJobs = `
jobs:
  - run: gen
    parameters:
      n: [1, 2]
  - run: use
    on_each: [gen]
    parameters:
      m: 10
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func decodeRecords(t *testing.T, raw []byte) []map[string]any {
	t.Helper()
	var records []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.NoError(t, scanner.Err())
	return records
}

func TestRunMixedFormats(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "programs.hcl", pipelineHCL)
	writeFile(t, dir, "experiment.yaml", pipelineYAMLJobs)

	cfg, err := NewConfig(Config{
		SpecPaths: []string{dir},
		Threads:   2,
		LogFormat: "text",
		LogLevel:  "error",
	})
	require.NoError(t, err)

	var out, logs bytes.Buffer
	a := New(&out, &logs, cfg)
	require.NoError(t, a.Run(context.Background(), cfg))

	records := decodeRecords(t, out.Bytes())
	require.Len(t, records, 4, "2 gen instances, 2 use instances")

	assert.Equal(t, "gen.py 1", records[0]["command"])
	assert.Equal(t, "gen.py 2", records[1]["command"])
	for _, rec := range records[2:] {
		depends, ok := rec["depends"].([]any)
		require.True(t, ok)
		require.Len(t, depends, 1)
		assert.Equal(t, float64(2), rec["threads"])
	}
}

func TestRunWritesOutputFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "programs.hcl", pipelineHCL)
	writeFile(t, dir, "experiment.yaml", pipelineYAMLJobs)
	outPath := filepath.Join(dir, "plan.jsonl")

	cfg, err := NewConfig(Config{
		SpecPaths:  []string{dir},
		OutputPath: outPath,
		Threads:    1,
		LogFormat:  "text",
		LogLevel:   "error",
	})
	require.NoError(t, err)

	var out, logs bytes.Buffer
	require.NoError(t, New(&out, &logs, cfg).Run(context.Background(), cfg))

	assert.Empty(t, out.Bytes(), "records go to the file, not the stream")
	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Len(t, decodeRecords(t, raw), 4)
}

func TestRunPlanError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "experiment.yaml", `
jobs:
  - run: nonexistent
`)

	cfg, err := NewConfig(Config{
		SpecPaths: []string{dir},
		Threads:   1,
		LogFormat: "text",
		LogLevel:  "error",
	})
	require.NoError(t, err)

	var out, logs bytes.Buffer
	err = New(&out, &logs, cfg).Run(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown program")
}

func TestRunNoJobs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "programs.hcl", pipelineHCL)

	cfg, err := NewConfig(Config{
		SpecPaths: []string{dir},
		Threads:   1,
		LogFormat: "text",
		LogLevel:  "error",
	})
	require.NoError(t, err)

	var out, logs bytes.Buffer
	err = New(&out, &logs, cfg).Run(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no experiment jobs")
}

func TestRunNoSpecFiles(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig(Config{
		SpecPaths: []string{t.TempDir()},
		Threads:   1,
		LogFormat: "text",
		LogLevel:  "error",
	})
	require.NoError(t, err)

	var out, logs bytes.Buffer
	err = New(&out, &logs, cfg).Run(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no spec files")
}

func TestNewConfigValidation(t *testing.T) {
	t.Parallel()

	_, err := NewConfig(Config{Threads: 1})
	assert.Error(t, err, "spec paths are required")

	_, err = NewConfig(Config{SpecPaths: []string{"a"}, Threads: 0})
	assert.Error(t, err, "threads must be positive")
}
