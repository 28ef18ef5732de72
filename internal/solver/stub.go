package solver

import "context"

// Stub is an in-process Solver used by tests that need a deterministic or
// deliberately-failing outcome without pulling in HiGHS. ForceStatus
// defaults to StatusOptimal with every variable at 0. A non-feasible
// ForceStatus or a ForceErr makes StudentAssigner take its greedy
// fallback (§8 scenario S4).
type Stub struct {
	ForceStatus Status
	ForceErr    error
	// Values, if set, is returned verbatim instead of all-zero variables.
	Values map[string]float64
}

// Solve implements Solver.
func (s Stub) Solve(_ context.Context, problem *Problem) (*Result, error) {
	if s.ForceErr != nil {
		return nil, s.ForceErr
	}

	status := s.ForceStatus
	if !status.Feasible() {
		return &Result{Status: status}, nil
	}

	values := s.Values
	if values == nil {
		values = make(map[string]float64, len(problem.Variables))
	}
	return &Result{Status: status, Values: values}, nil
}
