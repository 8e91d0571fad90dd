package domain

import "sort"

// FailureRecord tracks every rejected candidate observed for an activity.
// Failures are diagnostic, never gating: the scheduler always returns
// normally and callers decide how to react to unmet occurrences.
type FailureRecord struct {
	ActivityID string
	Attempts   int
	Violations []Violation
}

// Statistics is a plain data summary of a completed run, matching the output
// boundary's Statistics shape. It holds no formatting logic of its own; any
// narrative rendering is an external collaborator.
type Statistics struct {
	TotalSlots       int
	UniqueActivities int
	DateRangeStart   Date
	DateRangeEnd     Date
	BusiestDay       Date
	BusiestDayCount  int
	SpecialistUsage  map[string]int
	EquipmentUsage   map[string]int
	FailedCount      int
}

// SchedulerState is the append-only accumulator every scheduling run
// produces: a booking log plus the indexes, counters, and failure records
// described in the data model. It is owned exclusively by the scheduler
// during a run; the checker and scorer only ever read it.
type SchedulerState struct {
	bookings        []TimeSlot
	bySpecialist    map[string][]TimeSlot
	byEquipment     map[string][]TimeSlot
	byDate          map[Date][]TimeSlot
	occurrenceCount map[string]int
	failures        map[string]*FailureRecord

	startDate    Date
	durationDays int
}

// NewSchedulerState creates an empty state for a horizon.
func NewSchedulerState(startDate Date, durationDays int) *SchedulerState {
	return &SchedulerState{
		bySpecialist:    make(map[string][]TimeSlot),
		byEquipment:     make(map[string][]TimeSlot),
		byDate:          make(map[Date][]TimeSlot),
		occurrenceCount: make(map[string]int),
		failures:        make(map[string]*FailureRecord),
		startDate:       startDate,
		durationDays:    durationDays,
	}
}

// EndDate is the last date in the scheduling horizon, inclusive.
func (s *SchedulerState) EndDate() Date {
	return s.startDate.AddDays(s.durationDays - 1)
}

func (s *SchedulerState) StartDate() Date    { return s.startDate }
func (s *SchedulerState) DurationDays() int  { return s.durationDays }

// Bookings returns the full append-only booking log in insertion order.
func (s *SchedulerState) Bookings() []TimeSlot {
	return append([]TimeSlot(nil), s.bookings...)
}

// BookingsOn returns every booking on a given date, in insertion order.
func (s *SchedulerState) BookingsOn(date Date) []TimeSlot {
	return append([]TimeSlot(nil), s.byDate[date]...)
}

// BookingsForSpecialist returns every booking for a specialist, in insertion order.
func (s *SchedulerState) BookingsForSpecialist(id string) []TimeSlot {
	return append([]TimeSlot(nil), s.bySpecialist[id]...)
}

// BookingsForEquipment returns every booking that names the given equipment id.
func (s *SchedulerState) BookingsForEquipment(id string) []TimeSlot {
	return append([]TimeSlot(nil), s.byEquipment[id]...)
}

// BookedCount returns how many TimeSlots have been booked for an activity.
func (s *SchedulerState) BookedCount(activityID string) int {
	return s.occurrenceCount[activityID]
}

// CountOn returns the number of bookings on a given date, used to find
// "light days" during backfill and to rank candidate dates by load.
func (s *SchedulerState) CountOn(date Date) int {
	return len(s.byDate[date])
}

// Book appends a TimeSlot to the log and updates every index and counter.
// Only the scheduler's booking step may call this.
func (s *SchedulerState) Book(slot TimeSlot) {
	s.bookings = append(s.bookings, slot)
	s.byDate[slot.Date] = append(s.byDate[slot.Date], slot)
	s.occurrenceCount[slot.ActivityID]++
	if slot.SpecialistID != "" {
		s.bySpecialist[slot.SpecialistID] = append(s.bySpecialist[slot.SpecialistID], slot)
	}
	for _, eq := range slot.EquipmentIDs {
		s.byEquipment[eq] = append(s.byEquipment[eq], slot)
	}
}

// RecordFailure appends a rejected candidate's violation to the activity's
// failure record, creating the record on first failure.
func (s *SchedulerState) RecordFailure(activityID string, v Violation) {
	rec, ok := s.failures[activityID]
	if !ok {
		rec = &FailureRecord{ActivityID: activityID}
		s.failures[activityID] = rec
	}
	rec.Attempts++
	rec.Violations = append(rec.Violations, v)
}

// Failures returns the failure record for an activity, or nil if none exist.
func (s *SchedulerState) Failures(activityID string) *FailureRecord {
	return s.failures[activityID]
}

// AllFailures returns every recorded failure, sorted by activity id for
// deterministic iteration by callers that don't otherwise order it.
func (s *SchedulerState) AllFailures() []*FailureRecord {
	ids := make([]string, 0, len(s.failures))
	for id := range s.failures {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*FailureRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.failures[id])
	}
	return out
}

// ComputeStatistics derives the Statistics snapshot from the current state.
func (s *SchedulerState) ComputeStatistics() Statistics {
	stats := Statistics{
		TotalSlots:      len(s.bookings),
		DateRangeStart:  s.startDate,
		DateRangeEnd:    s.EndDate(),
		SpecialistUsage: make(map[string]int),
		EquipmentUsage:  make(map[string]int),
	}

	uniqueActivities := make(map[string]struct{})
	for _, b := range s.bookings {
		uniqueActivities[b.ActivityID] = struct{}{}
	}
	stats.UniqueActivities = len(uniqueActivities)

	for id, slots := range s.bySpecialist {
		stats.SpecialistUsage[id] = len(slots)
	}
	for id, slots := range s.byEquipment {
		stats.EquipmentUsage[id] = len(slots)
	}

	var busiest Date
	busiestCount := -1
	for d := s.startDate; d.BeforeOrEqual(s.EndDate()); d = d.AddDays(1) {
		c := s.CountOn(d)
		if c > busiestCount {
			busiestCount = c
			busiest = d
		}
	}
	if busiestCount < 0 {
		busiestCount = 0
	}
	stats.BusiestDay = busiest
	stats.BusiestDayCount = busiestCount
	stats.FailedCount = len(s.failures)

	return stats
}

// LightDays returns every date in the horizon whose booking count is below
// the threshold, sorted ascending by count (then by date for stability).
func (s *SchedulerState) LightDays(threshold int) []Date {
	var days []Date
	for d := s.startDate; d.BeforeOrEqual(s.EndDate()); d = d.AddDays(1) {
		if s.CountOn(d) < threshold {
			days = append(days, d)
		}
	}
	sort.SliceStable(days, func(i, j int) bool {
		ci, cj := s.CountOn(days[i]), s.CountOn(days[j])
		if ci != cj {
			return ci < cj
		}
		return days[i].Before(days[j])
	})
	return days
}
