package domain

import "time"

// Unassigned names a (student, course) pair the engine could not place,
// along with a human-readable reason (§3, §7).
type Unassigned struct {
	StudentID StudentID
	CourseID  CourseID
	Reason    string
}

// Metadata carries informational facts about a solve: none of it feeds back
// into scheduling decisions (§4.5: "the score is informational").
type Metadata struct {
	RunID       string
	GeneratedAt time.Time
	Score       float64
	SolveTime   time.Duration
	Algorithm   string
}

// Schedule is the engine's final, immutable (once returned) output: the set
// of sections plus unassigned entries and metadata (§3).
type Schedule struct {
	Sections   []*Section
	Unassigned []Unassigned
	Metadata   Metadata
}
