package solver

import (
	"context"

	"github.com/nextmv-io/sdk/mip"
)

// HighsSolver solves a Problem with the HiGHS backend of the nextmv mip
// SDK, the pattern grounded on the shift-scheduling template: build a
// mip.Model, register one mip.Bool per Variable, wire the objective and
// constraints as linear terms, then run mip.NewSolver(mip.Highs, model).
type HighsSolver struct{}

// Solve implements Solver.
func (HighsSolver) Solve(_ context.Context, problem *Problem) (*Result, error) {
	model := mip.NewModel()

	vars := make(map[string]mip.Bool, len(problem.Variables))
	for _, v := range problem.Variables {
		vars[v.ID] = model.NewBool()
	}

	if problem.Objective.Sense == Maximize {
		model.Objective().SetMaximize()
	} else {
		model.Objective().SetMinimize()
	}
	for _, t := range problem.Objective.Terms {
		model.Objective().NewTerm(t.Coefficient, vars[t.Var.ID])
	}

	for _, c := range problem.Constraints {
		row := model.NewConstraint(toMIPSense(c.Sense), c.Bound)
		for _, t := range c.Terms {
			row.NewTerm(t.Coefficient, vars[t.Var.ID])
		}
	}

	mipSolver := mip.NewSolver(mip.Highs, model)
	options := mip.NewSolveOptions()
	if problem.Timeout > 0 {
		_ = options.SetMaximumDuration(problem.Timeout)
	}

	solution, err := mipSolver.Solve(options)
	if err != nil {
		return &Result{Status: StatusError}, err
	}

	result := &Result{Values: make(map[string]float64, len(vars))}
	switch {
	case solution.IsOptimal():
		result.Status = StatusOptimal
	case solution.IsSubOptimal():
		result.Status = StatusSubOptimal
	default:
		result.Status = StatusInfeasible
		return result, nil
	}

	for id, v := range vars {
		result.Values[id] = solution.Value(v)
	}
	return result, nil
}

func toMIPSense(s ConstraintSense) mip.Sense {
	switch s {
	case Equal:
		return mip.Equal
	case GreaterOrEqual:
		return mip.GreaterThanOrEqual
	default:
		return mip.LessThanOrEqual
	}
}
