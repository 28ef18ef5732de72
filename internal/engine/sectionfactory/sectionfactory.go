// Package sectionfactory implements Phase 1 of the scheduling pipeline
// (spec.md §4.1): materializing empty sections per course and assigning
// each a qualified teacher, round-robin over the qualified teachers still
// under max_sections when the course is reached. The cap is not checked
// again within a course, so a course's later sections can take a teacher
// past max_sections.
package sectionfactory

import (
	"fmt"

	"github.com/schoolsched/schoolsched/internal/domain"
)

// Run materializes course.Sections sections for every course in input
// order, with periods and room left empty. Teacher counts track how many
// sections each teacher already holds, seeded with 0 for every teacher.
func Run(teachers []domain.Teacher, courses []domain.Course) []*domain.Section {
	counts := make(map[domain.TeacherID]int, len(teachers))
	for _, t := range teachers {
		counts[t.ID] = 0
	}

	var sections []*domain.Section
	for _, course := range courses {
		pool := qualifiedPool(teachers, counts, course.ID)
		for i := 0; i < course.Sections; i++ {
			section := &domain.Section{
				ID:       domain.SectionID(fmt.Sprintf("%s-%d", course.ID, i+1)),
				CourseID: course.ID,
				Capacity: course.MaxStudents,
				State:    domain.StateCreated,
			}
			if len(pool) > 0 {
				teacherID := pool[i%len(pool)]
				id := teacherID
				section.TeacherID = &id
				counts[teacherID]++
			}
			section.State = domain.StateTeachered
			sections = append(sections, section)
		}
	}
	return sections
}

// qualifiedPool returns, in teacher input order, the ids of teachers
// qualified for course and currently under their max_sections cap. The pool
// is computed once per course; it is not recomputed as sections within the
// same course are assigned (§4.1).
func qualifiedPool(teachers []domain.Teacher, counts map[domain.TeacherID]int, course domain.CourseID) []domain.TeacherID {
	var pool []domain.TeacherID
	for _, t := range teachers {
		if !t.TeachesCourse(course) {
			continue
		}
		if counts[t.ID] >= t.MaxSections {
			continue
		}
		pool = append(pool, t.ID)
	}
	return pool
}
