package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emallson/waluigi/internal/field"
	"github.com/emallson/waluigi/internal/model"
)

func TestBatchSingleAssignment(t *testing.T) {
	t.Parallel()

	job := &model.Job{
		Run: "sim",
		Parameters: map[string]field.Setting{
			"n": field.Value(field.UInt(3)),
		},
	}

	got := Batch(job)
	require.Len(t, got, 1)
	assert.Equal(t, field.UInt(3), got[0]["n"])
	assert.Equal(t, field.UInt(0), got[0]["repetition-sim"])
}

func TestBatchCartesianProduct(t *testing.T) {
	t.Parallel()

	job := &model.Job{
		Run: "sim",
		Parameters: map[string]field.Setting{
			"a": field.List(field.UInt(1), field.UInt(2)),
			"b": field.List(field.Str("x"), field.Str("y"), field.Str("z")),
			"c": field.Value(field.Bool(true)),
		},
	}

	got := Batch(job)
	require.Len(t, got, 6, "2 * 3 * 1 assignments")

	// Sorted field order with the last name varying fastest.
	assert.Equal(t, field.UInt(1), got[0]["a"])
	assert.Equal(t, field.Str("x"), got[0]["b"])
	assert.Equal(t, field.Str("y"), got[1]["b"])
	assert.Equal(t, field.Str("z"), got[2]["b"])
	assert.Equal(t, field.UInt(2), got[3]["a"])

	seen := make(map[string]int)
	for _, assignment := range got {
		assert.Equal(t, field.Bool(true), assignment["c"])
		seen[assignment["a"].String()+"/"+assignment["b"].String()]++
	}
	assert.Len(t, seen, 6, "every combination appears exactly once")
}

func TestBatchRepetitions(t *testing.T) {
	t.Parallel()

	job := &model.Job{
		Run:         "sim",
		Repetitions: 3,
		Parameters: map[string]field.Setting{
			"n": field.List(field.UInt(1), field.UInt(2)),
		},
	}

	got := Batch(job)
	require.Len(t, got, 6, "repetitions replicate the whole product")

	// The product cycles; the repetition tag increments per full cycle.
	expected := []struct {
		n   uint64
		rep uint64
	}{
		{1, 0}, {2, 0},
		{1, 1}, {2, 1},
		{1, 2}, {2, 2},
	}
	for i, exp := range expected {
		assert.Equal(t, field.UInt(exp.n), got[i]["n"], "assignment %d", i)
		assert.Equal(t, field.UInt(exp.rep), got[i]["repetition-sim"], "assignment %d", i)
	}
}

func TestBatchRangeExpansion(t *testing.T) {
	t.Parallel()

	job := &model.Job{
		Run: "sweep",
		Parameters: map[string]field.Setting{
			"step": field.Range(field.UInt(0), field.UInt(10), field.UInt(5)),
		},
	}

	got := Batch(job)
	require.Len(t, got, 3)
	assert.Equal(t, field.UInt(0), got[0]["step"])
	assert.Equal(t, field.UInt(5), got[1]["step"])
	assert.Equal(t, field.UInt(10), got[2]["step"])
}

func TestBatchNoParameters(t *testing.T) {
	t.Parallel()

	job := &model.Job{Run: "noop"}
	got := Batch(job)
	require.Len(t, got, 1, "a parameterless job still yields one assignment")
	assert.Equal(t, field.UInt(0), got[0]["repetition-noop"])

	job.Repetitions = 4
	got = Batch(job)
	require.Len(t, got, 4)
	assert.Equal(t, field.UInt(3), got[3]["repetition-noop"])
}

func TestBatchEmptyList(t *testing.T) {
	t.Parallel()

	job := &model.Job{
		Run: "sim",
		Parameters: map[string]field.Setting{
			"n": field.List(),
		},
	}
	assert.Empty(t, Batch(job), "an empty value list empties the whole product")
}
