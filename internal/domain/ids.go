// Package domain defines the entities and invariants of spec.md §3: the
// inputs the engine borrows read-only for one solve (Student, Teacher,
// Course, Room), and the schedule state it owns and mutates across the
// five-phase pipeline (Section, Schedule).
package domain

// StudentID, TeacherID, CourseID, RoomID and SectionID are opaque caller-
// supplied identifiers, except SectionID which the engine synthesizes
// deterministically as "{course_id}-{1-based-index}" (§3).
type (
	StudentID string
	TeacherID string
	CourseID  string
	RoomID    string
	SectionID string
)
