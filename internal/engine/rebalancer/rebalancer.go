// Package rebalancer implements Phase 5 of the scheduling pipeline: a
// bounded local-search pass that narrows the enrollment spread across
// same-course sections, then scores the resulting schedule.
package rebalancer

import (
	"github.com/schoolsched/schoolsched/internal/domain"
	"github.com/schoolsched/schoolsched/internal/occupancy"
)

// Run moves students from the most to the least enrolled section within
// each course, one student per move, until every course's sections are
// within one student of each other or the iteration budget is spent.
// maxIterations bounds the total number of moves made across every
// course, not per course. It returns the post-rebalance score in [0, 100].
func Run(cfg domain.Config, courses []domain.Course, sections []*domain.Section, maxIterations int) float64 {
	byCourse := make(map[domain.CourseID][]*domain.Section)
	for _, s := range sections {
		byCourse[s.CourseID] = append(byCourse[s.CourseID], s)
	}

	occupied := studentOccupancy(cfg, sections)

	remaining := maxIterations
	for _, course := range courses {
		group := byCourse[course.ID]
		if len(group) < 2 {
			continue
		}
		remaining = balanceCourse(group, occupied, remaining)
		if remaining <= 0 {
			break
		}
	}

	for _, s := range sections {
		s.State = domain.StateBalanced
	}

	return score(sections, byCourse)
}

func balanceCourse(group []*domain.Section, occupied map[domain.StudentID]*occupancy.Set, budget int) int {
	for budget > 0 {
		max, min := extremes(group)
		if max == nil || min == nil || len(max.Enrolled)-len(min.Enrolled) <= 1 {
			return budget
		}

		moved := false
		for i := len(max.Enrolled) - 1; i >= 0; i-- {
			student := max.Enrolled[i]
			set := occupied[student]
			if set == nil {
				continue
			}
			if set.HasAny(min.Periods) {
				continue
			}
			set.RemoveAll(max.Periods)
			set.AddAll(min.Periods)
			max.Unenroll(student)
			min.Enroll(student)
			moved = true
			budget--
			break
		}
		if !moved {
			return budget
		}
	}
	return budget
}

func extremes(group []*domain.Section) (max, min *domain.Section) {
	for _, s := range group {
		if max == nil || len(s.Enrolled) > len(max.Enrolled) {
			max = s
		}
		if min == nil || len(s.Enrolled) < len(min.Enrolled) {
			min = s
		}
	}
	return max, min
}

func studentOccupancy(cfg domain.Config, sections []*domain.Section) map[domain.StudentID]*occupancy.Set {
	occupied := make(map[domain.StudentID]*occupancy.Set)
	for _, s := range sections {
		for _, student := range s.Enrolled {
			set, ok := occupied[student]
			if !ok {
				set = occupancy.New(cfg.DaysPerWeek, cfg.PeriodsPerDay)
				occupied[student] = set
			}
			set.AddAll(s.Periods)
		}
	}
	return occupied
}

// score implements §4.5's formula verbatim:
//
//	100 − 5·(empty sections) − 0.5·Σ_course(max size − min size)
//	    − 10·(sections without room) − 10·(sections without teacher)
//
// clamped to [0, 100].
func score(sections []*domain.Section, byCourse map[domain.CourseID][]*domain.Section) float64 {
	var emptySections, noRoom, noTeacher int
	for _, s := range sections {
		if len(s.Enrolled) == 0 {
			emptySections++
		}
		if s.RoomID == nil {
			noRoom++
		}
		if s.TeacherID == nil {
			noTeacher++
		}
	}

	var spreadSum float64
	for _, group := range byCourse {
		if len(group) < 2 {
			continue
		}
		max, min := extremes(group)
		spreadSum += float64(len(max.Enrolled) - len(min.Enrolled))
	}

	result := 100 - 5*float64(emptySections) - 0.5*spreadSum - 10*float64(noRoom) - 10*float64(noTeacher)
	if result < 0 {
		result = 0
	}
	if result > 100 {
		result = 100
	}
	return result
}
