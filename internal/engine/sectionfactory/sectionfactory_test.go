package sectionfactory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolsched/schoolsched/internal/domain"
	"github.com/schoolsched/schoolsched/internal/engine/sectionfactory"
)

func TestRunRoundRobinsQualifiedTeachers(t *testing.T) {
	teachers := []domain.Teacher{
		{ID: "t1", Qualified: qualifies("math"), MaxSections: 2},
		{ID: "t2", Qualified: qualifies("math"), MaxSections: 2},
	}
	courses := []domain.Course{
		{ID: "math", MaxStudents: 30, Sections: 3},
	}

	sections := sectionfactory.Run(teachers, courses)

	require.Len(t, sections, 3)
	assert.Equal(t, domain.SectionID("math-1"), sections[0].ID)
	require.NotNil(t, sections[0].TeacherID)
	assert.Equal(t, domain.TeacherID("t1"), *sections[0].TeacherID)
	require.NotNil(t, sections[1].TeacherID)
	assert.Equal(t, domain.TeacherID("t2"), *sections[1].TeacherID)
	require.NotNil(t, sections[2].TeacherID)
	assert.Equal(t, domain.TeacherID("t1"), *sections[2].TeacherID)
	for _, s := range sections {
		assert.Equal(t, domain.StateTeachered, s.State)
		assert.Equal(t, 30, s.Capacity)
	}
}

func TestRunLeavesTeacherAbsentWhenNoQualifiedPool(t *testing.T) {
	courses := []domain.Course{{ID: "art", MaxStudents: 20, Sections: 1}}

	sections := sectionfactory.Run(nil, courses)

	require.Len(t, sections, 1)
	assert.Nil(t, sections[0].TeacherID)
}

func TestRunPoolIsFixedPerCourse(t *testing.T) {
	teachers := []domain.Teacher{
		{ID: "t1", Qualified: qualifies("math"), MaxSections: 1},
	}
	courses := []domain.Course{{ID: "math", MaxStudents: 10, Sections: 2}}

	sections := sectionfactory.Run(teachers, courses)

	// Pool is computed once: both sections land on the only qualified
	// teacher even though it exceeds MaxSections after the first section.
	require.Len(t, sections, 2)
	require.NotNil(t, sections[0].TeacherID)
	require.NotNil(t, sections[1].TeacherID)
	assert.Equal(t, domain.TeacherID("t1"), *sections[0].TeacherID)
	assert.Equal(t, domain.TeacherID("t1"), *sections[1].TeacherID)
}

func qualifies(courses ...domain.CourseID) map[domain.CourseID]struct{} {
	set := make(map[domain.CourseID]struct{}, len(courses))
	for _, c := range courses {
		set[c] = struct{}{}
	}
	return set
}
