package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/schoolsched/schoolsched/internal/constraintconfig"
	"github.com/schoolsched/schoolsched/internal/domain"
	"github.com/schoolsched/schoolsched/internal/engine"
	"github.com/schoolsched/schoolsched/internal/ingest"
	"github.com/schoolsched/schoolsched/pkg/config"
	"github.com/schoolsched/schoolsched/pkg/progress"
)

type generateFlags struct {
	studentsPath   string
	teachersPath   string
	coursesPath    string
	roomsPath      string
	constraintPath string
	outputPath     string
}

func newRootCommand(cfg *config.Config, log *zap.Logger) *cobra.Command {
	flags := &generateFlags{}

	root := &cobra.Command{
		Use:   "schoolsched",
		Short: "Generate a school timetable from student, teacher, course and room data",
	}

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Run the scheduling pipeline and write the resulting schedule as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), cfg, log, flags)
		},
	}
	generate.Flags().StringVar(&flags.studentsPath, "students", "", "path to the students JSON file")
	generate.Flags().StringVar(&flags.teachersPath, "teachers", "", "path to the teachers JSON file")
	generate.Flags().StringVar(&flags.coursesPath, "courses", "", "path to the courses JSON file")
	generate.Flags().StringVar(&flags.roomsPath, "rooms", "", "path to the rooms JSON file")
	generate.Flags().StringVar(&flags.constraintPath, "constraints", "", "optional path to a constraint-configuration file")
	generate.Flags().StringVar(&flags.outputPath, "out", "", "path to write the resulting schedule JSON (stdout if empty)")
	_ = generate.MarkFlagRequired("students")
	_ = generate.MarkFlagRequired("teachers")
	_ = generate.MarkFlagRequired("courses")
	_ = generate.MarkFlagRequired("rooms")

	root.AddCommand(generate)
	return root
}

func runGenerate(ctx context.Context, cfg *config.Config, log *zap.Logger, flags *generateFlags) error {
	input, err := loadInput(cfg, flags)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Scheduler.SolveTimeout)
	defer cancel()

	e := engine.New(log)
	schedule, err := e.GenerateSchedule(ctx, *input, engine.Options{
		UseILP:                    cfg.Scheduler.UseILP,
		MaxOptimizationIterations: cfg.Scheduler.MaxOptimizationIterations,
		SolveTimeout:              cfg.Scheduler.SolveTimeout,
		OnProgress: func(ev progress.Event) {
			log.Info("progress", zap.String("phase", string(ev.Phase)), zap.Int("percent", ev.Percent), zap.String("operation", ev.Operation))
		},
	})
	if err != nil {
		return err
	}

	return writeSchedule(flags.outputPath, schedule)
}

func loadInput(cfg *config.Config, flags *generateFlags) (*domain.Input, error) {
	students, err := openAndLoad(flags.studentsPath, ingest.LoadStudents)
	if err != nil {
		return nil, err
	}
	teachers, err := openAndLoad(flags.teachersPath, ingest.LoadTeachers)
	if err != nil {
		return nil, err
	}
	courses, err := openAndLoad(flags.coursesPath, ingest.LoadCourses)
	if err != nil {
		return nil, err
	}
	rooms, err := openAndLoad(flags.roomsPath, ingest.LoadRooms)
	if err != nil {
		return nil, err
	}

	calendar := domain.Config{
		PeriodsPerDay: cfg.Scheduler.PeriodsPerDay,
		DaysPerWeek:   cfg.Scheduler.DaysPerWeek,
	}
	if flags.constraintPath != "" {
		f, err := os.Open(flags.constraintPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		_, overrides, err := constraintconfig.Parse(f)
		if err != nil {
			return nil, err
		}
		if overrides.PeriodsPerDay != nil {
			calendar.PeriodsPerDay = *overrides.PeriodsPerDay
		}
		if overrides.DaysPerWeek != nil {
			calendar.DaysPerWeek = *overrides.DaysPerWeek
		}
	}

	input := &domain.Input{
		Students: students,
		Teachers: teachers,
		Courses:  courses,
		Rooms:    rooms,
		Config:   calendar,
	}

	if err := ingest.ValidateReferences(*input); err != nil {
		return nil, err
	}

	return input, nil
}

func openAndLoad[T any](path string, load func(r io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()
	return load(f)
}

func writeSchedule(path string, schedule *domain.Schedule) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(scheduleViewOf(schedule))
}

// scheduleView flattens domain.Schedule into a JSON-friendly shape;
// domain.Section carries pointer fields that marshal awkwardly otherwise.
type scheduleView struct {
	Sections   []sectionView      `json:"sections"`
	Unassigned []domain.Unassigned `json:"unassigned"`
	Metadata   metadataView       `json:"metadata"`
}

type sectionView struct {
	ID        domain.SectionID   `json:"id"`
	CourseID  domain.CourseID    `json:"course_id"`
	TeacherID *domain.TeacherID  `json:"teacher_id,omitempty"`
	RoomID    *domain.RoomID     `json:"room_id,omitempty"`
	Periods   []domain.Period    `json:"periods"`
	Enrolled  []domain.StudentID `json:"enrolled"`
	Capacity  int                `json:"capacity"`
}

type metadataView struct {
	RunID       string        `json:"run_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Score       float64       `json:"score"`
	SolveTime   time.Duration `json:"solve_time_ns"`
	Algorithm   string        `json:"algorithm"`
}

func scheduleViewOf(schedule *domain.Schedule) scheduleView {
	sections := make([]sectionView, len(schedule.Sections))
	for i, s := range schedule.Sections {
		sections[i] = sectionView{
			ID:        s.ID,
			CourseID:  s.CourseID,
			TeacherID: s.TeacherID,
			RoomID:    s.RoomID,
			Periods:   s.Periods,
			Enrolled:  s.Enrolled,
			Capacity:  s.Capacity,
		}
	}
	return scheduleView{
		Sections:   sections,
		Unassigned: schedule.Unassigned,
		Metadata: metadataView{
			RunID:       schedule.Metadata.RunID,
			GeneratedAt: schedule.Metadata.GeneratedAt,
			Score:       schedule.Metadata.Score,
			SolveTime:   schedule.Metadata.SolveTime,
			Algorithm:   schedule.Metadata.Algorithm,
		},
	}
}
