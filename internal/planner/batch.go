package planner

import (
	"fmt"
	"sort"

	"github.com/emallson/waluigi/internal/field"
	"github.com/emallson/waluigi/internal/model"
)

// Batch expands a job's parameter settings into the full list of concrete
// parameter assignments. Every field's setting is vectorized independently,
// the cartesian product is taken across fields, and the whole product is
// replicated Repetitions times by cycling through it. Each assignment in
// replicate block i carries a synthetic "repetition-{run}" parameter set to
// uint(i).
//
// The product is built as an iterative fold over sorted field names, so the
// enumeration order is deterministic and the fold never recurses regardless
// of how many fields a program declares. The last field in sorted order
// varies fastest.
func Batch(job *model.Job) []map[string]field.Data {
	names := make([]string, 0, len(job.Parameters))
	for name := range job.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)

	assignments := []map[string]field.Data{{}}
	for _, name := range names {
		values := job.Parameters[name].Vectorize()

		next := make([]map[string]field.Data, 0, len(assignments)*len(values))
		for _, partial := range assignments {
			for _, value := range values {
				extended := make(map[string]field.Data, len(partial)+1)
				for k, v := range partial {
					extended[k] = v
				}
				extended[name] = value
				next = append(next, extended)
			}
		}
		assignments = next
	}

	reps := job.Repetitions
	if reps < 1 {
		reps = 1
	}

	size := len(assignments)
	repKey := fmt.Sprintf("repetition-%s", job.Run)

	out := make([]map[string]field.Data, 0, reps*size)
	for i := 0; i < reps*size; i++ {
		assignment := make(map[string]field.Data, size+1)
		for k, v := range assignments[i%size] {
			assignment[k] = v
		}
		assignment[repKey] = field.UInt(uint64(i / size))
		out = append(out, assignment)
	}
	return out
}
