package timeassigner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolsched/schoolsched/internal/domain"
	"github.com/schoolsched/schoolsched/internal/engine/timeassigner"
)

func TestRunSeparatesSameGradeCoursesAcrossSlots(t *testing.T) {
	cfg := domain.Config{PeriodsPerDay: 4, DaysPerWeek: 5}
	courses := []domain.Course{
		{ID: "calc", MaxStudents: 20, PeriodsPerWeek: 5, Sections: 1, GradeRestrictions: grades(12)},
		{ID: "physics", MaxStudents: 20, PeriodsPerWeek: 5, Sections: 1, GradeRestrictions: grades(12)},
	}
	sections := []*domain.Section{
		{ID: "calc-1", CourseID: "calc", Capacity: 20},
		{ID: "physics-1", CourseID: "physics", Capacity: 20},
	}

	timeassigner.Run(cfg, nil, courses, sections)

	require.Len(t, sections[0].Periods, cfg.DaysPerWeek)
	require.Len(t, sections[1].Periods, cfg.DaysPerWeek)
	firstSlot := sections[0].Periods[0].Slot
	secondSlot := sections[1].Periods[0].Slot
	assert.NotEqual(t, firstSlot, secondSlot, "grade-12 sections should land on different slots to avoid a student conflict")
	assert.Equal(t, domain.StateTimed, sections[0].State)
	assert.Equal(t, domain.StateTimed, sections[1].State)
}

func TestRunRespectsTeacherUnavailability(t *testing.T) {
	cfg := domain.Config{PeriodsPerDay: 2, DaysPerWeek: 3}
	teacherID := domain.TeacherID("t1")
	unavailable := make([]domain.Period, 0, cfg.DaysPerWeek)
	for d := 0; d < cfg.DaysPerWeek; d++ {
		unavailable = append(unavailable, domain.Period{Day: d, Slot: 0})
	}
	teachers := []domain.Teacher{{ID: teacherID, Unavailable: unavailable}}
	courses := []domain.Course{{ID: "art", MaxStudents: 20, PeriodsPerWeek: 3, Sections: 1}}
	sections := []*domain.Section{{ID: "art-1", CourseID: "art", Capacity: 20, TeacherID: &teacherID}}

	timeassigner.Run(cfg, teachers, courses, sections)

	require.Len(t, sections[0].Periods, cfg.DaysPerWeek)
	for _, p := range sections[0].Periods {
		assert.Equal(t, 1, p.Slot, "slot 0 is unavailable for the section's teacher on every day")
	}
}

func TestRunPrefersLeastUsedSlotWithinCourse(t *testing.T) {
	cfg := domain.Config{PeriodsPerDay: 3, DaysPerWeek: 2}
	courses := []domain.Course{{ID: "eng", MaxStudents: 20, PeriodsPerWeek: 2, Sections: 2}}
	sections := []*domain.Section{
		{ID: "eng-1", CourseID: "eng", Capacity: 20},
		{ID: "eng-2", CourseID: "eng", Capacity: 20},
	}

	timeassigner.Run(cfg, nil, courses, sections)

	assert.Equal(t, 0, sections[0].Periods[0].Slot)
	assert.NotEqual(t, sections[0].Periods[0].Slot, sections[1].Periods[0].Slot,
		"the second section of the same course is penalized off the first section's slot")
}

func grades(g ...int) map[int]struct{} {
	set := make(map[int]struct{}, len(g))
	for _, v := range g {
		set[v] = struct{}{}
	}
	return set
}
