package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerState_BookUpdatesIndexes(t *testing.T) {
	day := NewDate(2025, 12, 9)
	state := NewSchedulerState(day, 7)
	state.Book(TimeSlot{
		ActivityID: "act_001", Date: day, Start: NewClockTime(8, 0),
		DurationMinutes: 30, SpecialistID: "spec_1", EquipmentIDs: []string{"eq_1"},
	})

	assert.Equal(t, 1, state.BookedCount("act_001"))
	assert.Len(t, state.BookingsOn(day), 1)
	assert.Len(t, state.BookingsForSpecialist("spec_1"), 1)
	assert.Len(t, state.BookingsForEquipment("eq_1"), 1)
}

func TestSchedulerState_LightDays(t *testing.T) {
	day := NewDate(2025, 12, 9)
	state := NewSchedulerState(day, 3)
	for i := 0; i < 16; i++ {
		state.Book(TimeSlot{ActivityID: "x", Date: day, Start: NewClockTime(0, i), DurationMinutes: 1})
	}
	light := state.LightDays(15)
	// day is now at 16 bookings, so it should not appear as a light day;
	// the other two horizon days remain at 0.
	assert.Len(t, light, 2)
	for _, d := range light {
		assert.NotEqual(t, day, d)
	}
}

func TestSchedulerState_RecordFailureAccumulates(t *testing.T) {
	state := NewSchedulerState(NewDate(2025, 12, 9), 7)
	v := Violation{Kind: ViolationOverlap, ActivityID: "act_001"}
	state.RecordFailure("act_001", v)
	state.RecordFailure("act_001", v)

	rec := state.Failures("act_001")
	assert.Equal(t, 2, rec.Attempts)
	assert.Len(t, rec.Violations, 2)
}

func TestSchedulerState_ComputeStatistics(t *testing.T) {
	day := NewDate(2025, 12, 9)
	state := NewSchedulerState(day, 7)
	state.Book(TimeSlot{ActivityID: "act_001", Date: day, Start: NewClockTime(8, 0), DurationMinutes: 30, SpecialistID: "spec_1"})
	state.Book(TimeSlot{ActivityID: "act_002", Date: day.AddDays(1), Start: NewClockTime(9, 0), DurationMinutes: 30})

	stats := state.ComputeStatistics()
	assert.Equal(t, 2, stats.TotalSlots)
	assert.Equal(t, 2, stats.UniqueActivities)
	assert.Equal(t, 1, stats.SpecialistUsage["spec_1"])
}
