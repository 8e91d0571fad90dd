package domain

import "fmt"

// Checker is the hard-constraint predicate: given an activity and a
// candidate (date, start_time), does it conflict with anything already
// booked or any resource's own limits? It reads SchedulerState and the
// specialist/equipment registries but never mutates them.
type Checker struct {
	specialists map[string]*Specialist
	equipment   map[string]*Equipment
	travel      []*TravelPeriod
}

// NewChecker builds a Checker over the validated resource registries.
func NewChecker(specialists []*Specialist, equipment []*Equipment, travel []*TravelPeriod) *Checker {
	c := &Checker{
		specialists: make(map[string]*Specialist, len(specialists)),
		equipment:   make(map[string]*Equipment, len(equipment)),
		travel:      append([]*TravelPeriod(nil), travel...),
	}
	for _, s := range specialists {
		c.specialists[s.ID()] = s
	}
	for _, e := range equipment {
		c.equipment[e.ID()] = e
	}
	return c
}

// Check returns the first violation a candidate (activity, date, start)
// triggers against the current state, in the fixed evaluation order
// time_window, overlap, specialist, equipment, travel. A nil return means
// the candidate is acceptable.
func (c *Checker) Check(activity *Activity, date Date, start ClockTime, state *SchedulerState) *Violation {
	if v := c.checkTimeWindow(activity, date, start); v != nil {
		return v
	}
	if v := c.checkOverlap(activity, date, start, state); v != nil {
		return v
	}
	if v := c.checkSpecialist(activity, date, start); v != nil {
		return v
	}
	if v := c.checkEquipment(activity, date, start, state); v != nil {
		return v
	}
	if v := c.checkTravel(activity, date, start); v != nil {
		return v
	}
	return nil
}

func (c *Checker) checkTimeWindow(activity *Activity, date Date, start ClockTime) *Violation {
	end := start.Add(activity.DurationMinutes())
	w := activity.Window()
	if w == nil {
		// No window: the only remaining constraint is that the booking must
		// not spill past midnight.
		if end.OverflowsDay() {
			return violation(ViolationTimeWindow, activity, date, start, "booking extends past end of day")
		}
		return nil
	}
	if start < w.Start || end > w.End {
		return violation(ViolationTimeWindow, activity, date, start, "candidate falls outside activity's preferred time window")
	}
	return nil
}

// checkOverlap enforces that the client cannot be double-booked: any two
// TimeSlots on the same date must have disjoint intervals, independent of
// whether they share a specialist or equipment id. (The seed scenario
// "priority beats contention" only makes sense under this universal rule —
// two same-window, resource-free activities genuinely contend for the same
// clock slots. See the scheduling design notes for how this squares with the
// narrower, resource-gated overlap rule also described in the data model.)
func (c *Checker) checkOverlap(activity *Activity, date Date, start ClockTime, state *SchedulerState) *Violation {
	candidate := TimeSlot{
		ActivityID:      activity.ID(),
		Date:            date,
		Start:           start,
		DurationMinutes: activity.DurationMinutes(),
		SpecialistID:    activity.SpecialistID(),
		EquipmentIDs:    activity.EquipmentIDs(),
	}
	for _, existing := range state.BookingsOn(date) {
		if candidate.Overlaps(existing) {
			return violation(ViolationOverlap, activity, date, start,
				fmt.Sprintf("overlaps existing booking for activity %s", existing.ActivityID))
		}
	}
	return nil
}

func (c *Checker) checkSpecialist(activity *Activity, date Date, start ClockTime) *Violation {
	if !activity.RequiresSpecialist() {
		return nil
	}
	specialist, ok := c.specialists[activity.SpecialistID()]
	if !ok {
		return violation(ViolationSpecialist, activity, date, start,
			fmt.Sprintf("unknown specialist %q", activity.SpecialistID()))
	}
	if specialist.IsDayOff(date) {
		return violation(ViolationSpecialist, activity, date, start,
			fmt.Sprintf("specialist %s is off on %s", specialist.ID(), date.Format()))
	}
	blocks := specialist.AvailabilityOn(date.Weekday())
	if len(blocks) == 0 {
		return violation(ViolationSpecialist, activity, date, start,
			fmt.Sprintf("specialist %s has no availability on weekday %d", specialist.ID(), date.Weekday()))
	}
	end := start.Add(activity.DurationMinutes())
	for _, b := range blocks {
		if b.Start <= start && end <= b.End {
			return nil
		}
	}
	return violation(ViolationSpecialist, activity, date, start,
		fmt.Sprintf("specialist %s has no availability block covering %s-%s", specialist.ID(), start, end))
}

func (c *Checker) checkEquipment(activity *Activity, date Date, start ClockTime, state *SchedulerState) *Violation {
	if len(activity.EquipmentIDs()) == 0 {
		return nil
	}
	end := start.Add(activity.DurationMinutes())
	for _, eqID := range activity.EquipmentIDs() {
		eq, ok := c.equipment[eqID]
		if !ok {
			return violation(ViolationEquipment, activity, date, start,
				fmt.Sprintf("unknown equipment %q", eqID))
		}
		if eq.MaintenanceViolationOn(date, start, activity.DurationMinutes()) {
			return violation(ViolationEquipment, activity, date, start,
				fmt.Sprintf("equipment %s under maintenance on %s", eq.ID(), date.Format()))
		}
		concurrent := 0
		for _, existing := range state.BookingsForEquipment(eqID) {
			if !existing.Date.Equal(date) {
				continue
			}
			if start < existing.End() && existing.Start < end {
				concurrent++
			}
		}
		if concurrent >= eq.MaxConcurrentUsers() {
			return violation(ViolationEquipment, activity, date, start,
				fmt.Sprintf("equipment %s at capacity (%d concurrent users)", eq.ID(), eq.MaxConcurrentUsers()))
		}
	}
	return nil
}

func (c *Checker) checkTravel(activity *Activity, date Date, start ClockTime) *Violation {
	if activity.RemoteCapable() {
		return nil
	}
	for _, t := range c.travel {
		if t.RemoteActivitiesOnly() && t.Contains(date) {
			return violation(ViolationTravel, activity, date, start,
				fmt.Sprintf("travel period %s is remote-only and activity is not remote capable", t.ID()))
		}
	}
	return nil
}

func violation(kind ViolationKind, activity *Activity, date Date, start ClockTime, message string) *Violation {
	return &Violation{
		Kind:       kind,
		Message:    message,
		ActivityID: activity.ID(),
		Date:       date,
		Start:      start,
	}
}
