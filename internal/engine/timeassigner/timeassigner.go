// Package timeassigner implements Phase 2 of the scheduling pipeline
// (spec.md §4.2): a penalty-minimizing greedy that picks one slot per
// section and replicates it across every day of the week.
package timeassigner

import (
	"github.com/schoolsched/schoolsched/internal/domain"
	"github.com/schoolsched/schoolsched/internal/occupancy"
)

const (
	sameCoursePenalty = 1000
	gradePenaltyUnit  = 500
)

// Run assigns a single (day, slot)-replicated period set to every section,
// grouped by course in course-input order, processing each course's
// sections in the order they were created. Sections are mutated in place.
func Run(cfg domain.Config, teachers []domain.Teacher, courses []domain.Course, sections []*domain.Section) {
	teacherOccupied := seedTeacherOccupancy(cfg, teachers)
	slotUsage := make([]int, cfg.PeriodsPerDay)
	gradeSlotUsage := make(map[int][]int)

	byCourse := groupByCourse(sections)

	for _, course := range courses {
		courseSections := byCourse[course.ID]
		courseUsedSlots := make(map[int]bool)
		for _, section := range courseSections {
			slot := chooseSlot(cfg, section, teacherOccupied, slotUsage, gradeSlotUsage, course, courseUsedSlots)
			commit(cfg, section, slot, teacherOccupied, slotUsage, gradeSlotUsage, course, courseUsedSlots)
		}
	}
}

func chooseSlot(
	cfg domain.Config,
	section *domain.Section,
	teacherOccupied map[domain.TeacherID]*occupancy.Set,
	slotUsage []int,
	gradeSlotUsage map[int][]int,
	course domain.Course,
	courseUsedSlots map[int]bool,
) int {
	best := -1
	bestPenalty := 0
	for s := 0; s < cfg.PeriodsPerDay; s++ {
		if !feasible(cfg, section, s, teacherOccupied) {
			continue
		}
		penalty := slotUsage[s]
		if courseUsedSlots[s] {
			penalty += sameCoursePenalty
		}
		for grade := range course.GradeRestrictions {
			penalty += gradePenaltyUnit * gradeUsage(gradeSlotUsage, grade, s)
		}
		if best == -1 || penalty < bestPenalty {
			best = s
			bestPenalty = penalty
		}
	}
	if best == -1 {
		// No feasible slot: an unavoidable conflict. The validator reports it.
		return 0
	}
	return best
}

func feasible(cfg domain.Config, section *domain.Section, slot int, teacherOccupied map[domain.TeacherID]*occupancy.Set) bool {
	if section.TeacherID == nil {
		return true
	}
	occ, ok := teacherOccupied[*section.TeacherID]
	if !ok {
		return true
	}
	for d := 0; d < cfg.DaysPerWeek; d++ {
		if occ.Has(domain.Period{Day: d, Slot: slot}) {
			return false
		}
	}
	return true
}

func commit(
	cfg domain.Config,
	section *domain.Section,
	slot int,
	teacherOccupied map[domain.TeacherID]*occupancy.Set,
	slotUsage []int,
	gradeSlotUsage map[int][]int,
	course domain.Course,
	courseUsedSlots map[int]bool,
) {
	periods := domain.WeekPeriods(cfg.DaysPerWeek, slot)
	section.Periods = periods
	section.State = domain.StateTimed

	if section.TeacherID != nil {
		occ, ok := teacherOccupied[*section.TeacherID]
		if !ok {
			occ = occupancy.New(cfg.DaysPerWeek, cfg.PeriodsPerDay)
			teacherOccupied[*section.TeacherID] = occ
		}
		occ.AddAll(periods)
	}

	slotUsage[slot]++
	for grade := range course.GradeRestrictions {
		ensureGradeRow(gradeSlotUsage, grade, cfg.PeriodsPerDay)
		gradeSlotUsage[grade][slot]++
	}
	courseUsedSlots[slot] = true
}

func gradeUsage(gradeSlotUsage map[int][]int, grade, slot int) int {
	row, ok := gradeSlotUsage[grade]
	if !ok || slot >= len(row) {
		return 0
	}
	return row[slot]
}

func ensureGradeRow(gradeSlotUsage map[int][]int, grade, periodsPerDay int) {
	if _, ok := gradeSlotUsage[grade]; !ok {
		gradeSlotUsage[grade] = make([]int, periodsPerDay)
	}
}

func seedTeacherOccupancy(cfg domain.Config, teachers []domain.Teacher) map[domain.TeacherID]*occupancy.Set {
	occupied := make(map[domain.TeacherID]*occupancy.Set, len(teachers))
	for _, t := range teachers {
		set := occupancy.New(cfg.DaysPerWeek, cfg.PeriodsPerDay)
		set.AddAll(t.Unavailable)
		occupied[t.ID] = set
	}
	return occupied
}

func groupByCourse(sections []*domain.Section) map[domain.CourseID][]*domain.Section {
	grouped := make(map[domain.CourseID][]*domain.Section)
	for _, s := range sections {
		grouped[s.CourseID] = append(grouped[s.CourseID], s)
	}
	return grouped
}
