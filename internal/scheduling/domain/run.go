package domain

import (
	"time"

	"github.com/google/uuid"

	shareddomain "github.com/felixgeelhaar/healthsched/internal/shared/domain"
)

// RunCompletedEvent is emitted once a Run finishes, carrying just enough of
// the SchedulerState for downstream consumers (a calendar-sync worker, a
// notification service) without handing over the whole engine state.
type RunCompletedEvent struct {
	shareddomain.BaseEvent
	TotalSlots        int
	FailedActivityIDs []string
	BusiestDay        Date
	BusiestDayCount   int
}

const runAggregateType = "scheduling.Run"

// NewRunCompletedEvent builds the event for a just-finished Run.
func NewRunCompletedEvent(runID uuid.UUID, stats Statistics, failedActivityIDs []string) RunCompletedEvent {
	return RunCompletedEvent{
		BaseEvent:         shareddomain.NewBaseEvent(runID, runAggregateType, "scheduling.runs.completed"),
		TotalSlots:        stats.TotalSlots,
		FailedActivityIDs: append([]string(nil), failedActivityIDs...),
		BusiestDay:        stats.BusiestDay,
		BusiestDayCount:   stats.BusiestDayCount,
	}
}

// Run is the aggregate root for one execution of the scheduling engine
// against a fixed input set. It exists purely at the adapter boundary: the
// engine itself (Checker, Scorer, the greedy scheduler) is a pure function
// over entities and never touches a Run. Run only wraps a completed
// SchedulerState so it can be stamped with an id, cached, persisted to run
// history, and published as a domain event, mirroring the way the teacher
// stack wraps a completed aggregate with BaseAggregateRoot bookkeeping.
type Run struct {
	shareddomain.BaseAggregateRoot
	startDate    Date
	durationDays int
	inputDigest  string
	state        *SchedulerState
}

// NewRun starts a new Run for a horizon and input digest; Complete must be
// called once the engine finishes to record its result and raise the
// completion event.
func NewRun(startDate Date, durationDays int, inputDigest string) *Run {
	return &Run{
		BaseAggregateRoot: shareddomain.NewBaseAggregateRoot(),
		startDate:         startDate,
		durationDays:      durationDays,
		inputDigest:       inputDigest,
	}
}

// RehydrateRun recreates a Run from persisted run-history state, without
// re-raising its completion event.
func RehydrateRun(id uuid.UUID, createdAt, updatedAt time.Time, startDate Date, durationDays int, inputDigest string, state *SchedulerState) *Run {
	entity := shareddomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	return &Run{
		BaseAggregateRoot: shareddomain.RehydrateBaseAggregateRoot(entity, 0),
		startDate:         startDate,
		durationDays:      durationDays,
		inputDigest:       inputDigest,
		state:             state,
	}
}

// Complete records a finished SchedulerState and raises RunCompletedEvent.
func (r *Run) Complete(state *SchedulerState) {
	r.state = state
	r.Touch()
	stats := state.ComputeStatistics()
	var failed []string
	for _, f := range state.AllFailures() {
		failed = append(failed, f.ActivityID)
	}
	r.AddDomainEvent(NewRunCompletedEvent(r.ID(), stats, failed))
}

func (r *Run) StartDate() Date            { return r.startDate }
func (r *Run) DurationDays() int          { return r.durationDays }
func (r *Run) InputDigest() string        { return r.inputDigest }
func (r *Run) State() *SchedulerState     { return r.state }
