// Package studentassigner implements Phase 4 of the scheduling pipeline
// (spec.md §4.4): seating every student into one section per required
// course and as many ranked electives as fit, primarily via a binary ILP
// model and, when the solver can't produce a feasible solution, via a
// two-pass greedy fallback that never fails.
package studentassigner

import (
	"context"
	"fmt"
	"sort"

	"github.com/schoolsched/schoolsched/internal/domain"
	"github.com/schoolsched/schoolsched/internal/occupancy"
	"github.com/schoolsched/schoolsched/internal/solver"
)

// MaxRankedElectives is the number of elective ranks the objective rewards
// (0-based ranks 0 through 9): weight is 10-rank, so a rank of 10 or beyond contributes
// nothing and is dropped from the ILP candidate set and the greedy
// elective pass alike (§9 open question, resolved).
const MaxRankedElectives = 10

const requiredWeight = 1000

// Options configures one run of StudentAssigner.
type Options struct {
	UseILP bool
}

// Result is what StudentAssigner hands back to the orchestrator.
type Result struct {
	Unassigned []domain.Unassigned
	Algorithm  string
	SolverErr  error
}

// Run seats students into sections in place (Section.Enrolled is mutated)
// and reports every (student, course) pair it could not place.
func Run(ctx context.Context, cfg domain.Config, students []domain.Student, courses []domain.Course, sections []*domain.Section, solv solver.Solver, opts Options) Result {
	courseByID := make(map[domain.CourseID]domain.Course, len(courses))
	for _, c := range courses {
		courseByID[c.ID] = c
	}
	sectionsByCourse := make(map[domain.CourseID][]*domain.Section)
	for _, s := range sections {
		sectionsByCourse[s.CourseID] = append(sectionsByCourse[s.CourseID], s)
	}

	candidates := buildCandidates(students, courseByID, sectionsByCourse)

	if opts.UseILP && solv != nil {
		result, ok := runILP(ctx, students, candidates, sections, solv)
		if ok {
			return result
		}
	}

	return runGreedy(cfg, students, courseByID, sectionsByCourse)
}

type candidate struct {
	student  domain.StudentID
	course   domain.CourseID
	section  *domain.Section
	weight   float64
	required bool
}

func (c candidate) varID() string {
	return fmt.Sprintf("%s|%s", c.student, c.section.ID)
}

func buildCandidates(students []domain.Student, courseByID map[domain.CourseID]domain.Course, sectionsByCourse map[domain.CourseID][]*domain.Section) []candidate {
	var out []candidate
	for _, st := range students {
		for _, courseID := range st.Required {
			course, ok := courseByID[courseID]
			if !ok || !course.AllowsGrade(st.Grade) {
				continue
			}
			for _, sec := range sectionsByCourse[courseID] {
				out = append(out, candidate{student: st.ID, course: courseID, section: sec, weight: requiredWeight, required: true})
			}
		}
		for rank, courseID := range st.Electives {
			if rank >= MaxRankedElectives {
				break
			}
			course, ok := courseByID[courseID]
			if !ok || !course.AllowsGrade(st.Grade) {
				continue
			}
			weight := float64(10 - rank)
			for _, sec := range sectionsByCourse[courseID] {
				out = append(out, candidate{student: st.ID, course: courseID, section: sec, weight: weight, required: false})
			}
		}
	}
	return out
}

func runILP(ctx context.Context, students []domain.Student, candidates []candidate, sections []*domain.Section, solv solver.Solver) (Result, bool) {
	problem := &solver.Problem{Objective: solver.Objective{Sense: solver.Maximize}}

	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		id := c.varID()
		if seen[id] {
			continue
		}
		seen[id] = true
		problem.Variables = append(problem.Variables, solver.Variable{ID: id})
		problem.Objective.Terms = append(problem.Objective.Terms, solver.Term{Coefficient: c.weight, Var: solver.Variable{ID: id}})
	}

	// At most one section per (student, course).
	byStudentCourse := make(map[string][]candidate)
	for _, c := range candidates {
		key := string(c.student) + "|" + string(c.course)
		byStudentCourse[key] = append(byStudentCourse[key], c)
	}
	for _, group := range byStudentCourse {
		row := solver.Constraint{Sense: solver.LessOrEqual, Bound: 1}
		for _, c := range group {
			row.Terms = append(row.Terms, solver.Term{Coefficient: 1, Var: solver.Variable{ID: c.varID()}})
		}
		problem.Constraints = append(problem.Constraints, row)
	}

	// Section capacity.
	bySection := make(map[domain.SectionID][]candidate)
	for _, c := range candidates {
		bySection[c.section.ID] = append(bySection[c.section.ID], c)
	}
	for _, sec := range sections {
		group := bySection[sec.ID]
		if len(group) == 0 {
			continue
		}
		row := solver.Constraint{Sense: solver.LessOrEqual, Bound: float64(sec.Capacity - len(sec.Enrolled))}
		for _, c := range group {
			row.Terms = append(row.Terms, solver.Term{Coefficient: 1, Var: solver.Variable{ID: c.varID()}})
		}
		problem.Constraints = append(problem.Constraints, row)
	}

	// No time conflicts: at most one section per (student, period).
	type studentPeriod struct {
		student domain.StudentID
		key     string
	}
	byStudentPeriod := make(map[studentPeriod][]candidate)
	for _, c := range candidates {
		for _, p := range c.section.Periods {
			key := studentPeriod{student: c.student, key: p.Key()}
			byStudentPeriod[key] = append(byStudentPeriod[key], c)
		}
	}
	for _, group := range byStudentPeriod {
		if len(group) < 2 {
			continue
		}
		row := solver.Constraint{Sense: solver.LessOrEqual, Bound: 1}
		added := make(map[string]bool, len(group))
		for _, c := range group {
			id := c.varID()
			if added[id] {
				continue
			}
			added[id] = true
			row.Terms = append(row.Terms, solver.Term{Coefficient: 1, Var: solver.Variable{ID: id}})
		}
		problem.Constraints = append(problem.Constraints, row)
	}

	solution, err := solv.Solve(ctx, problem)
	if err != nil || solution == nil || !solution.Status.Feasible() {
		return Result{}, false
	}

	assigned := make(map[string]bool)
	for _, c := range candidates {
		if solution.Value(c.varID()) > 0.5 {
			id := c.varID()
			if assigned[id] {
				continue
			}
			assigned[id] = true
			c.section.Enroll(c.student)
		}
	}

	// Extraction (§4.4.1): Unassigned is reported only for required courses
	// with no enrolled section. Electives are best-effort, same as the
	// greedy fallback's silent elective pass (§4.4.2) — an elective the
	// solver didn't pick is not a reportable failure.
	placed := make(map[string]bool)
	for _, c := range candidates {
		if assigned[c.varID()] {
			placed[string(c.student)+"|"+string(c.course)] = true
		}
	}
	var unassigned []domain.Unassigned
	for _, st := range students {
		for _, courseID := range st.Required {
			key := string(st.ID) + "|" + string(courseID)
			if !placed[key] {
				unassigned = append(unassigned, domain.Unassigned{StudentID: st.ID, CourseID: courseID, Reason: "ILP could not find feasible assignment"})
			}
		}
	}

	markState(sections)
	return Result{Unassigned: unassigned, Algorithm: "ilp"}, true
}

// runGreedy is the fallback path (§4.4.2): a required pass that records a
// reason for every seat it can't find, followed by a silent elective pass.
func runGreedy(cfg domain.Config, students []domain.Student, courseByID map[domain.CourseID]domain.Course, sectionsByCourse map[domain.CourseID][]*domain.Section) Result {
	occupied := make(map[domain.StudentID]*occupancy.Set, len(students))
	for _, st := range students {
		occupied[st.ID] = occupancy.New(cfg.DaysPerWeek, cfg.PeriodsPerDay)
	}

	var unassigned []domain.Unassigned

	for _, st := range students {
		for _, courseID := range st.Required {
			course, ok := courseByID[courseID]
			if !ok || !course.AllowsGrade(st.Grade) {
				// Silent: missing course or grade-restricted exclusion
				// never produces an Unassigned entry (§4.4.2).
				continue
			}
			if !seat(st, courseID, sectionsByCourse, occupied[st.ID]) {
				unassigned = append(unassigned, domain.Unassigned{StudentID: st.ID, CourseID: courseID, Reason: "No available section (conflict or capacity)"})
			}
		}
	}

	for _, st := range students {
		for rank, courseID := range st.Electives {
			if rank >= MaxRankedElectives {
				break
			}
			course, ok := courseByID[courseID]
			if !ok || !course.AllowsGrade(st.Grade) {
				continue
			}
			seat(st, courseID, sectionsByCourse, occupied[st.ID])
		}
	}

	var all []*domain.Section
	for _, secs := range sectionsByCourse {
		all = append(all, secs...)
	}
	markState(all)

	return Result{Unassigned: unassigned, Algorithm: "greedy"}
}

// seat tries each of the course's sections, smallest enrollment first
// (§4.4.2: "sorted ascending by current enrolled count" — this balances
// sections as students are inserted, reducing work for the rebalancer),
// skipping any that are full or conflict with the student's existing
// period set. It enrolls the student in the first acceptable section.
func seat(st domain.Student, courseID domain.CourseID, sectionsByCourse map[domain.CourseID][]*domain.Section, occupied *occupancy.Set) bool {
	candidates := sortedByEnrollment(sectionsByCourse[courseID])
	for _, sec := range candidates {
		if sec.Full() {
			continue
		}
		if occupied.HasAny(sec.Periods) {
			continue
		}
		sec.Enroll(st.ID)
		occupied.AddAll(sec.Periods)
		return true
	}
	return false
}

func sortedByEnrollment(sections []*domain.Section) []*domain.Section {
	sorted := make([]*domain.Section, len(sections))
	copy(sorted, sections)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Enrolled) < len(sorted[j].Enrolled)
	})
	return sorted
}

func markState(sections []*domain.Section) {
	for _, s := range sections {
		s.State = domain.StateEnrolled
	}
}
