package studentassigner_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolsched/schoolsched/internal/domain"
	"github.com/schoolsched/schoolsched/internal/engine/studentassigner"
	"github.com/schoolsched/schoolsched/internal/solver"
)

func TestRunGreedyEnforcesSectionCapacityAndReportsUnassigned(t *testing.T) {
	cfg := domain.Config{PeriodsPerDay: 2, DaysPerWeek: 1}
	courses := []domain.Course{{ID: "math", MaxStudents: 1, Sections: 1}}
	section := &domain.Section{ID: "math-1", CourseID: "math", Capacity: 1, Periods: []domain.Period{{Day: 0, Slot: 0}}}
	sections := []*domain.Section{section}
	students := []domain.Student{
		{ID: "s1", Required: []domain.CourseID{"math"}},
		{ID: "s2", Required: []domain.CourseID{"math"}},
	}

	result := studentassigner.Run(context.Background(), cfg, students, courses, sections, nil, studentassigner.Options{UseILP: false})

	assert.Equal(t, "greedy", result.Algorithm)
	require.Len(t, section.Enrolled, 1)
	require.Len(t, result.Unassigned, 1)
	assert.Equal(t, domain.StudentID("s2"), result.Unassigned[0].StudentID)
	assert.Equal(t, domain.CourseID("math"), result.Unassigned[0].CourseID)
	assert.NotEmpty(t, result.Unassigned[0].Reason)
}

func TestRunFallsBackToGreedyWhenSolverInfeasible(t *testing.T) {
	cfg := domain.Config{PeriodsPerDay: 1, DaysPerWeek: 1}
	courses := []domain.Course{{ID: "art", MaxStudents: 5, Sections: 1}}
	section := &domain.Section{ID: "art-1", CourseID: "art", Capacity: 5, Periods: []domain.Period{{Day: 0, Slot: 0}}}
	sections := []*domain.Section{section}
	students := []domain.Student{{ID: "s1", Required: []domain.CourseID{"art"}}}

	stub := solver.Stub{ForceStatus: solver.StatusInfeasible}

	result := studentassigner.Run(context.Background(), cfg, students, courses, sections, stub, studentassigner.Options{UseILP: true})

	assert.Equal(t, "greedy", result.Algorithm)
	assert.Len(t, section.Enrolled, 1)
}

func TestRunSplitsStudentsAcrossTwoSectionsOfSameCourse(t *testing.T) {
	cfg := domain.Config{PeriodsPerDay: 2, DaysPerWeek: 1}
	courses := []domain.Course{{ID: "bio", MaxStudents: 10, Sections: 2}}
	secA := &domain.Section{ID: "bio-1", CourseID: "bio", Capacity: 10, Periods: []domain.Period{{Day: 0, Slot: 0}}}
	secB := &domain.Section{ID: "bio-2", CourseID: "bio", Capacity: 10, Periods: []domain.Period{{Day: 0, Slot: 1}}}
	sections := []*domain.Section{secA, secB}

	var students []domain.Student
	for i := 0; i < 20; i++ {
		students = append(students, domain.Student{ID: domain.StudentID(studentName(i)), Required: []domain.CourseID{"bio"}})
	}

	result := studentassigner.Run(context.Background(), cfg, students, courses, sections, nil, studentassigner.Options{UseILP: false})

	assert.Equal(t, "greedy", result.Algorithm)
	assert.Empty(t, result.Unassigned)
	assert.Equal(t, 10, len(secA.Enrolled))
	assert.Equal(t, 10, len(secB.Enrolled))
}

func TestRunGreedySkipsGradeRestrictedRequiredCourseSilently(t *testing.T) {
	cfg := domain.Config{PeriodsPerDay: 1, DaysPerWeek: 1}
	courses := []domain.Course{{ID: "gov", MaxStudents: 10, Sections: 1, GradeRestrictions: map[int]struct{}{12: {}}}}
	section := &domain.Section{ID: "gov-1", CourseID: "gov", Capacity: 10, Periods: []domain.Period{{Day: 0, Slot: 0}}}
	sections := []*domain.Section{section}
	students := []domain.Student{{ID: "s1", Grade: 9, Required: []domain.CourseID{"gov"}}}

	result := studentassigner.Run(context.Background(), cfg, students, courses, sections, nil, studentassigner.Options{UseILP: false})

	assert.Equal(t, "greedy", result.Algorithm)
	assert.Empty(t, result.Unassigned, "grade-restricted exclusion is silent, not an Unassigned entry")
	assert.Empty(t, section.Enrolled)
}

func TestRunGreedySkipsMissingRequiredCourseSilently(t *testing.T) {
	cfg := domain.Config{PeriodsPerDay: 1, DaysPerWeek: 1}
	students := []domain.Student{{ID: "s1", Required: []domain.CourseID{"ghost"}}}

	result := studentassigner.Run(context.Background(), cfg, students, nil, nil, nil, studentassigner.Options{UseILP: false})

	assert.Equal(t, "greedy", result.Algorithm)
	assert.Empty(t, result.Unassigned)
}

func TestRunILPExtractsFeasibleSolutionAndReportsOnlyRequiredUnassigned(t *testing.T) {
	cfg := domain.Config{PeriodsPerDay: 1, DaysPerWeek: 1}
	courses := []domain.Course{
		{ID: "math", MaxStudents: 1, Sections: 1},
		{ID: "art", MaxStudents: 5, Sections: 1},
	}
	mathSection := &domain.Section{ID: "math-1", CourseID: "math", Capacity: 1, Periods: []domain.Period{{Day: 0, Slot: 0}}}
	artSection := &domain.Section{ID: "art-1", CourseID: "art", Capacity: 5, Periods: []domain.Period{{Day: 0, Slot: 0}}}
	sections := []*domain.Section{mathSection, artSection}

	students := []domain.Student{
		{ID: "s1", Required: []domain.CourseID{"math"}, Electives: []domain.CourseID{"art"}},
		{ID: "s2", Required: []domain.CourseID{"math"}},
	}

	// The solver selects s1 for both math (required) and art (elective),
	// but math's capacity of 1 leaves s2 unplaced.
	stub := solver.Stub{
		ForceStatus: solver.StatusOptimal,
		Values: map[string]float64{
			"s1|math-1": 1,
			"s1|art-1":  1,
			"s2|math-1": 0,
		},
	}

	result := studentassigner.Run(context.Background(), cfg, students, courses, sections, stub, studentassigner.Options{UseILP: true})

	assert.Equal(t, "ilp", result.Algorithm)
	assert.True(t, mathSection.HasStudent("s1"))
	assert.False(t, mathSection.HasStudent("s2"))
	assert.True(t, artSection.HasStudent("s1"))

	require.Len(t, result.Unassigned, 1)
	assert.Equal(t, domain.StudentID("s2"), result.Unassigned[0].StudentID)
	assert.Equal(t, domain.CourseID("math"), result.Unassigned[0].CourseID)
	assert.Equal(t, "ILP could not find feasible assignment", result.Unassigned[0].Reason)
}

func studentName(i int) string {
	return fmt.Sprintf("s%d", i)
}
