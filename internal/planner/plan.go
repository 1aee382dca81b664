package planner

import (
	"context"
	"fmt"
	"sort"

	"github.com/emallson/waluigi/internal/ctxlog"
	"github.com/emallson/waluigi/internal/field"
	"github.com/emallson/waluigi/internal/model"
)

// planner carries the state of one planning pass: the resolved program
// table, the monotonic instance ID counter, and the table of already
// planned instances keyed by job name for dependency resolution.
type planner struct {
	threads  int
	programs map[string]*model.Program
	nextID   int
	planned  map[string][]*Instance
}

// pending is a parameter assignment part-way through dependency folding,
// paired with the dependency IDs accumulated so far.
type pending struct {
	params  map[string]field.Data
	depends []int
}

// Plan walks the experiment's jobs in declaration order and emits one
// instance per expanded parameter assignment, resolving each job's on_each
// list against the instances of previously planned jobs. The threads hint
// is copied verbatim into every instance; the planner itself is a pure
// single-threaded pass. The returned slice is flattened in declaration
// order of the experiment's jobs.
func Plan(ctx context.Context, exp *model.Experiment, threads int, programs map[string]*model.Program) ([]*Instance, error) {
	logger := ctxlog.FromContext(ctx)

	p := &planner{
		threads:  threads,
		programs: programs,
		planned:  make(map[string][]*Instance),
	}

	var out []*Instance
	for _, job := range exp.Jobs {
		prog, ok := programs[job.Run]
		if !ok {
			known := make([]string, 0, len(programs))
			for name := range programs {
				known = append(known, name)
			}
			sort.Strings(known)
			return nil, &model.InvalidProgramError{Name: job.Run, Known: known}
		}

		var (
			instances []*Instance
			err       error
		)
		if job.HasDepends() {
			instances, err = p.planDependent(ctx, job, prog)
		} else {
			instances, err = p.planIndependent(ctx, job, prog)
		}
		if err != nil {
			return nil, err
		}

		logger.Debug("Planned job.", "run", job.Run, "instances", len(instances), "depends", job.HasDepends())
		p.planned[job.Run] = instances
		out = append(out, instances...)
	}

	logger.Debug("Planning pass complete.", "total_instances", len(out))
	return out, nil
}

// planIndependent handles a job with no on_each list: its settings are
// validated against the program, expanded, and emitted with empty
// dependency lists.
func (p *planner) planIndependent(_ context.Context, job *model.Job, prog *model.Program) ([]*Instance, error) {
	if err := prog.ValidateParameters(job.Parameters); err != nil {
		return nil, err
	}

	batch := Batch(job)
	instances := make([]*Instance, 0, len(batch))
	for _, params := range batch {
		inst, err := p.newInstance(prog, params, []int{})
		if err != nil {
			return nil, err
		}
		instances = append(instances, inst)
	}
	return instances, nil
}

// planDependent handles a job with an on_each list. Its own expanded batch
// is cross-producted against the planned instances of each named dependency
// in the given order: every working assignment is paired with every
// instance of the dependency, inheriting that instance's resolved
// parameters (later dependencies override on key collision) plus one Future
// placeholder per output the dependency's program declares, and recording
// the instance's ID. The merged assignments are then validated as concrete
// data and emitted.
func (p *planner) planDependent(_ context.Context, job *model.Job, prog *model.Program) ([]*Instance, error) {
	if err := prog.ValidateDependentParameters(job.Parameters); err != nil {
		return nil, err
	}

	work := []pending{}
	for _, params := range Batch(job) {
		work = append(work, pending{params: params, depends: []int{}})
	}

	for _, depName := range job.OnEach {
		depInstances, ok := p.planned[depName]
		if !ok {
			return nil, &model.UnknownDependencyError{Job: job.Run, Dependency: depName}
		}
		depProg, ok := p.programs[depName]
		if !ok {
			// planned[depName] implies the program resolved when the
			// dependency itself was planned.
			return nil, fmt.Errorf("internal: planned job %q has no program", depName)
		}

		next := make([]pending, 0, len(work)*len(depInstances))
		for _, w := range work {
			for _, depInst := range depInstances {
				merged := make(map[string]field.Data, len(w.params)+len(depInst.Params)+len(depProg.Outputs))
				for k, v := range w.params {
					merged[k] = v
				}
				for k, v := range depInst.Params {
					merged[k] = v
				}
				for name := range depProg.Outputs {
					merged[name] = field.Future()
				}

				depends := make([]int, 0, len(w.depends)+1)
				depends = append(depends, w.depends...)
				depends = append(depends, depInst.ID)

				next = append(next, pending{params: merged, depends: depends})
			}
		}
		work = next
	}

	instances := make([]*Instance, 0, len(work))
	for _, w := range work {
		if err := prog.ValidateParameterData(w.params); err != nil {
			return nil, err
		}
		inst, err := p.newInstance(prog, w.params, w.depends)
		if err != nil {
			return nil, err
		}
		instances = append(instances, inst)
	}
	return instances, nil
}

// newInstance renders the command line and assigns the next global ID.
func (p *planner) newInstance(prog *model.Program, params map[string]field.Data, depends []int) (*Instance, error) {
	command, err := prog.Cmd(params)
	if err != nil {
		return nil, err
	}

	inst := &Instance{
		ID:      p.nextID,
		Command: command,
		Params:  params,
		Log:     "",
		Depends: depends,
		Threads: p.threads,
	}
	p.nextID++
	return inst, nil
}
