package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorer_TimePreference_WithWindow_PeaksAtMidpoint(t *testing.T) {
	window := &TimeWindow{Start: NewClockTime(8, 0), End: NewClockTime(10, 0)}
	a := mustActivity(t, ActivityParams{
		ID: "act_001", Name: "A", Kind: Fitness, Priority: 1,
		Frequency: dailyFrequency(t), DurationMinutes: 30, Location: Home, Window: window,
	})
	s := NewScorer()
	state := NewSchedulerState(NewDate(2025, 12, 9), 7)

	mid := s.Score(a, NewDate(2025, 12, 9), NewClockTime(9, 0), state)
	edge := s.Score(a, NewDate(2025, 12, 9), NewClockTime(8, 0), state)
	assert.Greater(t, mid, edge)
	assert.LessOrEqual(t, mid, 10.0)
	assert.GreaterOrEqual(t, edge, 5.0)
}

func TestScorer_TimePreference_NoWindow_Bands(t *testing.T) {
	a := mustActivity(t, ActivityParams{
		ID: "act_001", Name: "A", Kind: Fitness, Priority: 1,
		Frequency: dailyFrequency(t), DurationMinutes: 30, Location: Home,
	})
	s := NewScorer()
	state := NewSchedulerState(NewDate(2025, 12, 9), 7)

	assert.Equal(t, 8.0, s.timePreference(a, NewClockTime(7, 0)))
	assert.Equal(t, 7.0, s.timePreference(a, NewClockTime(12, 0)))
	assert.Equal(t, 6.0, s.timePreference(a, NewClockTime(18, 0)))
	assert.Equal(t, 4.0, s.timePreference(a, NewClockTime(22, 0)))
	_ = state
}

func TestScorer_CrowdingPenalty(t *testing.T) {
	day := NewDate(2025, 12, 9)
	state := NewSchedulerState(day, 7)
	s := NewScorer()

	assert.Equal(t, 0.0, s.crowdingPenalty(day, state))
	for i := 0; i < 4; i++ {
		state.Book(TimeSlot{ActivityID: "x", Date: day, Start: NewClockTime(6+i, 0), DurationMinutes: 10})
	}
	assert.Equal(t, -0.5, s.crowdingPenalty(day, state))
	state.Book(TimeSlot{ActivityID: "x", Date: day, Start: NewClockTime(11, 0), DurationMinutes: 10})
	assert.Equal(t, -1.0, s.crowdingPenalty(day, state))
	state.Book(TimeSlot{ActivityID: "x", Date: day, Start: NewClockTime(12, 0), DurationMinutes: 10})
	assert.Equal(t, -2.0, s.crowdingPenalty(day, state))
}

func TestScorer_ConsistencyBonus(t *testing.T) {
	a := mustActivity(t, ActivityParams{
		ID: "act_001", Name: "A", Kind: Fitness, Priority: 1,
		Frequency: dailyFrequency(t), DurationMinutes: 30, Location: Home,
	})
	s := NewScorer()
	tue := NewDate(2025, 12, 9)
	nextTue := tue.AddDays(7)

	assert.Equal(t, 0.0, s.consistencyBonus(a, nextTue))
	s.RecordBooking(a, tue)
	assert.Equal(t, 1.0, s.consistencyBonus(a, nextTue))
	s.RecordBooking(a, tue.AddDays(7))
	assert.Equal(t, 2.0, s.consistencyBonus(a, nextTue.AddDays(7)))
}

func TestScorer_PreferredDayBonus(t *testing.T) {
	freq, _ := NewFrequency(Weekly, 1, []int{1}, nil)
	a := mustActivity(t, ActivityParams{
		ID: "act_001", Name: "A", Kind: Fitness, Priority: 1,
		Frequency: freq, DurationMinutes: 30, Location: Home,
	})
	s := NewScorer()
	tue := NewDate(2025, 12, 9) // weekday index 1
	wed := tue.AddDays(1)
	assert.Equal(t, 1.0, s.preferredDayBonus(a, tue))
	assert.Equal(t, 0.0, s.preferredDayBonus(a, wed))
}

func TestScorer_GroupingBonus_DegenerateWithSequentialIDs(t *testing.T) {
	a1 := mustActivity(t, ActivityParams{
		ID: "act_001", Name: "A", Kind: Fitness, Priority: 1,
		Frequency: dailyFrequency(t), DurationMinutes: 30, Location: Home,
	})
	a2 := mustActivity(t, ActivityParams{
		ID: "act_002", Name: "B", Kind: Fitness, Priority: 1,
		Frequency: dailyFrequency(t), DurationMinutes: 30, Location: Home,
	})
	day := NewDate(2025, 12, 9)
	state := NewSchedulerState(day, 7)
	state.Book(TimeSlot{ActivityID: a1.ID(), Date: day, Start: NewClockTime(6, 0), DurationMinutes: 30})

	s := NewScorer()
	// act_001 and act_002 share the "act" prefix regardless of kind, which is
	// exactly the documented proxy problem: it tracks id prefix, not
	// activity.Kind(), so generator id schemes like this one make it fire (or
	// not fire) independent of whether the activities are actually related.
	assert.Equal(t, 1.0, s.groupingBonus(a2, day, state))
}
