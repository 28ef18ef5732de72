// Package engine wires the five scheduling phases (spec.md §2) into one
// GenerateSchedule call: SectionFactory, TimeAssigner, RoomAssigner,
// StudentAssigner and Rebalancer, run in that order on the calling
// goroutine (§5 — the engine is single-threaded and deterministic given a
// stable input order).
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolsched/schoolsched/internal/domain"
	"github.com/schoolsched/schoolsched/internal/engine/rebalancer"
	"github.com/schoolsched/schoolsched/internal/engine/roomassigner"
	"github.com/schoolsched/schoolsched/internal/engine/sectionfactory"
	"github.com/schoolsched/schoolsched/internal/engine/studentassigner"
	"github.com/schoolsched/schoolsched/internal/engine/timeassigner"
	apierrors "github.com/schoolsched/schoolsched/pkg/errors"
	"github.com/schoolsched/schoolsched/pkg/progress"

	"github.com/schoolsched/schoolsched/internal/solver"
)

// Options configures one solve (§6.1).
type Options struct {
	UseILP                    bool
	MaxOptimizationIterations int
	SolveTimeout              time.Duration
	OnProgress                progress.Func
	Solver                    solver.Solver
}

// Engine runs the scheduling pipeline. Construct with New; the zero value
// is not usable.
type Engine struct {
	log *zap.Logger
}

// New builds an Engine. A nil logger defaults to a no-op logger, matching
// the teacher's nil-guard constructor convention.
func New(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log}
}

// GenerateSchedule runs SectionFactory, TimeAssigner, RoomAssigner,
// StudentAssigner and Rebalancer in order and returns the resulting
// Schedule. It returns an error only for InputError and InternalError
// (§7); a SolverFailure is always recovered locally and recorded in the
// returned Schedule's metadata instead.
func (e *Engine) GenerateSchedule(ctx context.Context, input domain.Input, opts Options) (*domain.Schedule, error) {
	start := time.Now()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	onProgress := opts.OnProgress
	if onProgress == nil {
		onProgress = progress.Noop
	}

	onProgress(progress.Event{Phase: progress.PhaseInitializing, Percent: 0, Operation: "materializing sections"})
	sections := sectionfactory.Run(input.Teachers, input.Courses)
	sectionCount := len(sections)
	onProgress(progress.Event{Phase: progress.PhaseInitializing, Percent: 15, Operation: "sections created", SectionsCreated: &sectionCount})

	timeassigner.Run(input.Config, input.Teachers, input.Courses, sections)
	onProgress(progress.Event{Phase: progress.PhaseAssigning, Percent: 35, Operation: "periods assigned"})

	roomassigner.Run(input.Config, input.Rooms, input.Courses, sections)
	onProgress(progress.Event{Phase: progress.PhaseAssigning, Percent: 55, Operation: "rooms assigned"})

	solv := opts.Solver
	if solv == nil && opts.UseILP {
		solv = solver.HighsSolver{}
	}
	studentResult := studentassigner.Run(ctx, input.Config, input.Students, input.Courses, sections, solv, studentassigner.Options{UseILP: opts.UseILP})
	if studentResult.Algorithm == "greedy" && opts.UseILP {
		e.log.Warn("ilp solver did not produce a feasible solution, used greedy fallback",
			zap.Error(apierrors.ErrSolverFailure))
	}
	assignedCount := countEnrollments(sections)
	onProgress(progress.Event{Phase: progress.PhaseOptimizing, Percent: 80, Operation: "students assigned", StudentsAssigned: &assignedCount})

	maxIterations := opts.MaxOptimizationIterations
	if maxIterations <= 0 {
		maxIterations = 500
	}
	score := rebalancer.Run(input.Config, input.Courses, sections, maxIterations)
	onProgress(progress.Event{Phase: progress.PhaseComplete, Percent: 100, Operation: "rebalance complete"})

	schedule := &domain.Schedule{
		Sections:   sections,
		Unassigned: studentResult.Unassigned,
		Metadata: domain.Metadata{
			RunID:       uuid.NewString(),
			GeneratedAt: time.Now(),
			Score:       score,
			SolveTime:   time.Since(start),
			Algorithm:   studentResult.Algorithm,
		},
	}

	if err := checkInvariants(schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

func countEnrollments(sections []*domain.Section) int {
	total := 0
	for _, s := range sections {
		total += len(s.Enrolled)
	}
	return total
}

// checkInvariants guards the section-capacity invariant (no section holds
// more students than its capacity), which the pipeline must never violate
// regardless of input (§7 InternalError: "a violated invariant is always a
// programming defect, never a user-facing condition").
func checkInvariants(schedule *domain.Schedule) error {
	for _, s := range schedule.Sections {
		if len(s.Enrolled) > s.Capacity {
			return apierrors.ErrInternal
		}
	}
	return nil
}

func validateInput(input domain.Input) error {
	if input.Config.PeriodsPerDay <= 0 || input.Config.DaysPerWeek <= 0 {
		return apierrors.Clone(apierrors.ErrInput, "periods_per_day and days_per_week must both be positive")
	}
	for _, c := range input.Courses {
		if c.Sections <= 0 {
			return apierrors.Clone(apierrors.ErrInput, "course "+string(c.ID)+" must offer at least one section")
		}
	}
	return nil
}
