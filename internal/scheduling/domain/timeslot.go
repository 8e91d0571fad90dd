package domain

// TimeSlot is a concrete booking: the engine's output unit.
type TimeSlot struct {
	ActivityID      string
	Date            Date
	Start           ClockTime
	DurationMinutes int
	SpecialistID    string
	EquipmentIDs    []string
}

// End returns the slot's exclusive end time.
func (s TimeSlot) End() ClockTime {
	return s.Start.Add(s.DurationMinutes)
}

// Overlaps reports whether the two slots' [start, end) intervals intersect.
// Callers are responsible for first confirming the slots share a date; this
// method only checks the interval.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.Start < other.End() && other.Start < s.End()
}

// ViolationKind names the reason a candidate slot was rejected, in the fixed
// evaluation order the checker applies.
type ViolationKind string

const (
	ViolationTimeWindow ViolationKind = "time_window"
	ViolationOverlap    ViolationKind = "overlap"
	ViolationSpecialist ViolationKind = "specialist"
	ViolationEquipment  ViolationKind = "equipment"
	ViolationTravel     ViolationKind = "travel"
)

// Violation is the reason a candidate (date, start_time) was rejected.
type Violation struct {
	Kind       ViolationKind
	Message    string
	ActivityID string
	Date       Date
	Start      ClockTime
}
