// Package progress defines the single side-channel the engine uses to
// report on a solve in progress (spec.md §6.2). It is factored out of
// internal/engine so the phase sub-packages (sectionfactory, timeassigner,
// ...) can emit events without importing the orchestrator that calls them.
package progress

// Phase names a coarse stage of a solve. It is unrelated to the five
// pipeline phases of spec.md §2 — it is the caller-facing, coarser-grained
// phase reported over the callback.
type Phase string

const (
	PhaseInitializing Phase = "initializing"
	PhaseAssigning    Phase = "assigning"
	PhaseOptimizing   Phase = "optimizing"
	PhaseComplete     Phase = "complete"
)

// Event is one progress notification. Percent is monotonically
// non-decreasing within a single solve. StudentsAssigned and
// SectionsCreated are optional running counters, populated only by the
// phases that track them.
type Event struct {
	Phase            Phase
	Percent          int
	Operation        string
	StudentsAssigned *int
	SectionsCreated  *int
}

// Func is the callback signature accepted by engine.Options.OnProgress. It
// is invoked inline on the engine's own goroutine (§5) and must return
// promptly.
type Func func(Event)

// Noop is the default callback used when the caller supplies none.
func Noop(Event) {}
