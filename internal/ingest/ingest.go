package ingest

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	"github.com/schoolsched/schoolsched/internal/domain"
	apierrors "github.com/schoolsched/schoolsched/pkg/errors"
)

var validate = validator.New()

// LoadStudents decodes and validates the student data file.
func LoadStudents(r io.Reader) ([]domain.Student, error) {
	var dtos []studentDTO
	if err := decode(r, &dtos); err != nil {
		return nil, err
	}

	students := make([]domain.Student, 0, len(dtos))
	for i, dto := range dtos {
		if err := validate.Struct(dto); err != nil {
			return nil, invalidRecord("students", i, err)
		}
		students = append(students, domain.Student{
			ID:        domain.StudentID(dto.ID),
			Grade:     dto.Grade,
			Required:  toCourseIDs(dto.Required),
			Electives: toCourseIDs(dto.Electives),
		})
	}
	return students, nil
}

// LoadTeachers decodes and validates the teacher data file.
func LoadTeachers(r io.Reader) ([]domain.Teacher, error) {
	var dtos []teacherDTO
	if err := decode(r, &dtos); err != nil {
		return nil, err
	}

	teachers := make([]domain.Teacher, 0, len(dtos))
	for i, dto := range dtos {
		if err := validate.Struct(dto); err != nil {
			return nil, invalidRecord("teachers", i, err)
		}
		teachers = append(teachers, domain.Teacher{
			ID:          domain.TeacherID(dto.ID),
			Qualified:   toCourseSet(dto.Qualified),
			MaxSections: dto.MaxSections,
			Unavailable: toPeriods(dto.Unavailable),
		})
	}
	return teachers, nil
}

// LoadCourses decodes and validates the course data file.
func LoadCourses(r io.Reader) ([]domain.Course, error) {
	var dtos []courseDTO
	if err := decode(r, &dtos); err != nil {
		return nil, err
	}

	courses := make([]domain.Course, 0, len(dtos))
	for i, dto := range dtos {
		if err := validate.Struct(dto); err != nil {
			return nil, invalidRecord("courses", i, err)
		}
		courses = append(courses, domain.Course{
			ID:                domain.CourseID(dto.ID),
			MaxStudents:       dto.MaxStudents,
			PeriodsPerWeek:    dto.PeriodsPerWeek,
			Sections:          dto.Sections,
			GradeRestrictions: toGradeSet(dto.GradeRestrictions),
			RequiredFeatures:  toStringSet(dto.RequiredFeatures),
		})
	}
	return courses, nil
}

// LoadRooms decodes and validates the room data file.
func LoadRooms(r io.Reader) ([]domain.Room, error) {
	var dtos []roomDTO
	if err := decode(r, &dtos); err != nil {
		return nil, err
	}

	rooms := make([]domain.Room, 0, len(dtos))
	for i, dto := range dtos {
		if err := validate.Struct(dto); err != nil {
			return nil, invalidRecord("rooms", i, err)
		}
		rooms = append(rooms, domain.Room{
			ID:          domain.RoomID(dto.ID),
			Capacity:    dto.Capacity,
			Features:    toStringSet(dto.Features),
			Unavailable: toPeriods(dto.Unavailable),
		})
	}
	return rooms, nil
}

// ValidateReferences checks the cross-file referential invariants spec.md
// §7 places under InputError: every course id a student or teacher names
// must exist among the loaded courses.
func ValidateReferences(input domain.Input) error {
	courseIDs := make(map[domain.CourseID]struct{}, len(input.Courses))
	for _, c := range input.Courses {
		courseIDs[c.ID] = struct{}{}
	}

	for _, st := range input.Students {
		for _, c := range st.Required {
			if _, ok := courseIDs[c]; !ok {
				return apierrors.Wrap(fmt.Errorf("student %s requires unknown course %s", st.ID, c), apierrors.ErrInput.Code, apierrors.ErrInput.Status, apierrors.ErrInput.Message)
			}
		}
		for _, c := range st.Electives {
			if _, ok := courseIDs[c]; !ok {
				return apierrors.Wrap(fmt.Errorf("student %s elects unknown course %s", st.ID, c), apierrors.ErrInput.Code, apierrors.ErrInput.Status, apierrors.ErrInput.Message)
			}
		}
	}
	for _, t := range input.Teachers {
		for c := range t.Qualified {
			if _, ok := courseIDs[c]; !ok {
				return apierrors.Wrap(fmt.Errorf("teacher %s is qualified for unknown course %s", t.ID, c), apierrors.ErrInput.Code, apierrors.ErrInput.Status, apierrors.ErrInput.Message)
			}
		}
	}
	return nil
}

func decode(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return apierrors.Wrap(err, apierrors.ErrInput.Code, apierrors.ErrInput.Status, "malformed input document")
	}
	return nil
}

func invalidRecord(file string, index int, err error) error {
	return apierrors.Wrap(err, apierrors.ErrInput.Code, apierrors.ErrInput.Status, fmt.Sprintf("%s[%d] failed validation", file, index))
}

func toCourseIDs(raw []string) []domain.CourseID {
	out := make([]domain.CourseID, len(raw))
	for i, s := range raw {
		out[i] = domain.CourseID(s)
	}
	return out
}

func toCourseSet(raw []string) map[domain.CourseID]struct{} {
	set := make(map[domain.CourseID]struct{}, len(raw))
	for _, s := range raw {
		set[domain.CourseID(s)] = struct{}{}
	}
	return set
}

func toStringSet(raw []string) map[string]struct{} {
	if len(raw) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(raw))
	for _, s := range raw {
		set[s] = struct{}{}
	}
	return set
}

func toGradeSet(raw []int) map[int]struct{} {
	if len(raw) == 0 {
		return nil
	}
	set := make(map[int]struct{}, len(raw))
	for _, g := range raw {
		set[g] = struct{}{}
	}
	return set
}

func toPeriods(raw []periodDTO) []domain.Period {
	out := make([]domain.Period, len(raw))
	for i, p := range raw {
		out[i] = domain.Period{Day: p.Day, Slot: p.Slot}
	}
	return out
}
