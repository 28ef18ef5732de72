// Package roomassigner implements Phase 3 of the scheduling pipeline
// (spec.md §4.3): assigning each timed section the smallest available room
// that satisfies its course's required features and is free for every one
// of the section's periods.
package roomassigner

import (
	"sort"

	"github.com/schoolsched/schoolsched/internal/domain"
	"github.com/schoolsched/schoolsched/internal/occupancy"
)

// Run assigns a room to every section in section-input order. A section
// that has no feasible room is left with a nil RoomID and still advances to
// StateRoomed: a missing room is not fatal (§7). StudentAssigner still
// seats students in it; the rebalancer's score counts it as a section
// without a room.
func Run(cfg domain.Config, rooms []domain.Room, courses []domain.Course, sections []*domain.Section) {
	byCourse := make(map[domain.CourseID]domain.Course, len(courses))
	for _, c := range courses {
		byCourse[c.ID] = c
	}

	candidates := sortedByCapacity(rooms)
	roomOccupied := make(map[domain.RoomID]*occupancy.Set, len(rooms))
	for _, r := range rooms {
		set := occupancy.New(cfg.DaysPerWeek, cfg.PeriodsPerDay)
		set.AddAll(r.Unavailable)
		roomOccupied[r.ID] = set
	}

	for _, section := range sections {
		course := byCourse[section.CourseID]
		room := pickRoom(candidates, roomOccupied, course, section)
		if room != nil {
			id := room.ID
			section.RoomID = &id
			roomOccupied[room.ID].AddAll(section.Periods)
		}
		section.State = domain.StateRoomed
	}
}

func pickRoom(candidates []domain.Room, occupied map[domain.RoomID]*occupancy.Set, course domain.Course, section *domain.Section) *domain.Room {
	for i := range candidates {
		room := candidates[i]
		if room.Capacity < section.Capacity {
			continue
		}
		if !room.HasFeatures(course.RequiredFeatures) {
			continue
		}
		if occupied[room.ID].HasAny(section.Periods) {
			continue
		}
		return &room
	}
	return nil
}

// sortedByCapacity returns rooms in ascending capacity order, smallest
// first, so the cheapest feasible room always wins (§4.3).
func sortedByCapacity(rooms []domain.Room) []domain.Room {
	sorted := make([]domain.Room, len(rooms))
	copy(sorted, rooms)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Capacity < sorted[j].Capacity
	})
	return sorted
}
