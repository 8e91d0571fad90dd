package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/healthsched/internal/scheduling/domain"
)

func mustFreq(t *testing.T, pattern domain.Pattern, count int, preferredDays []int, interval *int) domain.Frequency {
	t.Helper()
	f, err := domain.NewFrequency(pattern, count, preferredDays, interval)
	require.NoError(t, err)
	return f
}

func mustActivity(t *testing.T, p domain.ActivityParams) *domain.Activity {
	t.Helper()
	a, err := domain.NewActivity(p)
	require.NoError(t, err)
	return a
}

var seedStart = domain.NewDate(2025, 12, 9) // Tuesday

// S1 — Priority beats contention.
func TestSchedule_S1_PriorityBeatsContention(t *testing.T) {
	// A window exactly one duration wide leaves only one viable start time, so
	// the two activities genuinely contend for the same slot every day.
	window := &domain.TimeWindow{Start: domain.NewClockTime(8, 0), End: domain.NewClockTime(8, 30)}
	p1 := mustActivity(t, domain.ActivityParams{
		ID: "p1", Name: "P1", Kind: domain.Medication, Priority: 1,
		Frequency: mustFreq(t, domain.Daily, 1, nil, nil), DurationMinutes: 30, Location: domain.Home, Window: window,
	})
	p2 := mustActivity(t, domain.ActivityParams{
		ID: "p2", Name: "P2", Kind: domain.Medication, Priority: 2,
		Frequency: mustFreq(t, domain.Daily, 1, nil, nil), DurationMinutes: 30, Location: domain.Home, Window: window,
	})

	s := NewScheduler([]*domain.Activity{p1, p2}, nil, nil, nil, seedStart, 7)
	state := s.Schedule()

	assert.Equal(t, 7, state.BookedCount("p1"))
	assert.Equal(t, 0, state.BookedCount("p2"))

	fail := state.Failures("p2")
	require.NotNil(t, fail)
	assert.Equal(t, 7, fail.Attempts)
	for _, v := range fail.Violations {
		assert.Equal(t, domain.ViolationOverlap, v.Kind)
	}
}

// S2 — Specialist window limits days.
func TestSchedule_S2_SpecialistWindowLimitsDays(t *testing.T) {
	spec, err := domain.NewSpecialist(domain.SpecialistParams{
		ID: "spec_1", Name: "Sam", Kind: domain.Trainer,
		Availability: []domain.AvailabilityBlock{
			{DayOfWeek: 0, Start: domain.NewClockTime(8, 0), End: domain.NewClockTime(12, 0)},
			{DayOfWeek: 1, Start: domain.NewClockTime(8, 0), End: domain.NewClockTime(12, 0)},
			{DayOfWeek: 2, Start: domain.NewClockTime(8, 0), End: domain.NewClockTime(12, 0)},
		},
		MaxConcurrentClients: 1,
	})
	require.NoError(t, err)

	a := mustActivity(t, domain.ActivityParams{
		ID: "act_1", Name: "Session", Kind: domain.Therapy, Priority: 1,
		Frequency: mustFreq(t, domain.Daily, 1, nil, nil), DurationMinutes: 60, Location: domain.Clinic,
		SpecialistID: "spec_1",
	})

	s := NewScheduler([]*domain.Activity{a}, []*domain.Specialist{spec}, nil, nil, seedStart, 7)
	state := s.Schedule()

	assert.Equal(t, 3, state.BookedCount("act_1"))
	for _, b := range state.Bookings() {
		wd := b.Date.Weekday()
		assert.Contains(t, []int{0, 1, 2}, wd)
	}

	fail := state.Failures("act_1")
	require.NotNil(t, fail)
	assert.Greater(t, fail.Attempts, 0)
}

// S3 — Equipment maintenance carveout.
func TestSchedule_S3_EquipmentMaintenanceCarveout(t *testing.T) {
	maintDay := domain.NewDate(2025, 12, 10)
	start := domain.NewClockTime(10, 0)
	end := domain.NewClockTime(12, 0)
	eq, err := domain.NewEquipment(domain.EquipmentParams{
		ID: "eq_1", Name: "Treadmill", Location: domain.Gym,
		MaintenanceWindows: []domain.MaintenanceWindow{{StartDate: maintDay, EndDate: maintDay, Start: &start, End: &end}},
		MaxConcurrentUsers: 1,
	})
	require.NoError(t, err)

	window := &domain.TimeWindow{Start: domain.NewClockTime(10, 0), End: domain.NewClockTime(12, 0)}
	a := mustActivity(t, domain.ActivityParams{
		ID: "act_1", Name: "Cardio", Kind: domain.Fitness, Priority: 1,
		Frequency: mustFreq(t, domain.Daily, 1, nil, nil), DurationMinutes: 60, Location: domain.Gym,
		EquipmentIDs: []string{"eq_1"}, Window: window,
	})

	s := NewScheduler([]*domain.Activity{a}, nil, []*domain.Equipment{eq}, nil, seedStart, 7)
	state := s.Schedule()

	assert.Equal(t, 6, state.BookedCount("act_1"))
	for _, b := range state.Bookings() {
		assert.False(t, b.Date.Equal(maintDay))
	}
}

// S4 — Travel excludes non-remote.
func TestSchedule_S4_TravelExcludesNonRemote(t *testing.T) {
	travel, err := domain.NewTravelPeriod(domain.TravelPeriodParams{
		ID: "trip_1", StartDate: domain.NewDate(2025, 12, 13), EndDate: domain.NewDate(2025, 12, 14),
		RemoteActivitiesOnly: true,
	})
	require.NoError(t, err)

	nonRemote := mustActivity(t, domain.ActivityParams{
		ID: "nonremote", Name: "Gym session", Kind: domain.Fitness, Priority: 1,
		Frequency: mustFreq(t, domain.Daily, 1, nil, nil), DurationMinutes: 30, Location: domain.Gym, RemoteCapable: false,
	})
	remote := mustActivity(t, domain.ActivityParams{
		ID: "remote", Name: "Home workout", Kind: domain.Fitness, Priority: 1,
		Frequency: mustFreq(t, domain.Daily, 1, nil, nil), DurationMinutes: 30, Location: domain.Home, RemoteCapable: true,
	})

	s := NewScheduler([]*domain.Activity{nonRemote, remote}, nil, nil, []*domain.TravelPeriod{travel}, seedStart, 7)
	state := s.Schedule()

	assert.Equal(t, 5, state.BookedCount("nonremote"))
	assert.Equal(t, 7, state.BookedCount("remote"))
}

// S5 — Weekly spread with preferred days.
func TestSchedule_S5_WeeklySpreadWithPreferredDays(t *testing.T) {
	a := mustActivity(t, domain.ActivityParams{
		ID: "act_1", Name: "Group class", Kind: domain.Fitness, Priority: 1,
		Frequency: mustFreq(t, domain.Weekly, 3, []int{0, 2, 4}, nil), DurationMinutes: 45, Location: domain.Gym,
	})

	s := NewScheduler([]*domain.Activity{a}, nil, nil, nil, seedStart, 7)
	state := s.Schedule()

	assert.Equal(t, 3, state.BookedCount("act_1"))
	var weekdays []int
	for _, b := range state.Bookings() {
		weekdays = append(weekdays, b.Date.Weekday())
	}
	assert.ElementsMatch(t, []int{0, 2, 4}, weekdays)
}

// S6 — Light-day backfill: ten daily activities compete for the same narrow
// window; backfill must never reduce total booked count versus Phase 1
// alone, and no day may exceed the light-day threshold's intent once
// backfill has run against it.
func TestSchedule_S6_LightDayBackfillNeverRegresses(t *testing.T) {
	window := &domain.TimeWindow{Start: domain.NewClockTime(9, 0), End: domain.NewClockTime(10, 0)}
	var activities []*domain.Activity
	for i := 0; i < 10; i++ {
		id := "p3_" + string(rune('a'+i))
		activities = append(activities, mustActivity(t, domain.ActivityParams{
			ID: id, Name: id, Kind: domain.Fitness, Priority: 3,
			Frequency: mustFreq(t, domain.Daily, 1, nil, nil), DurationMinutes: 30, Location: domain.Home, Window: window,
		}))
	}

	s := NewScheduler(activities, nil, nil, nil, seedStart, 7)

	phase1Only := &Scheduler{
		activities: s.activities, specialists: s.specialists, equipment: s.equipment,
		travel: s.travel, startDate: s.startDate, durationDays: s.durationDays, checker: s.checker,
	}
	phase1State := domain.NewSchedulerState(phase1Only.startDate, phase1Only.durationDays)
	scorer := domain.NewScorer()
	for _, a := range phase1Only.sortedActivities() {
		required := phase1Only.RequiredOccurrences(a)
		for i := 0; i < required; i++ {
			dates := phase1Only.candidateDates(a, i, phase1State)
			if a.Priority() >= 3 {
				sortByLightness(dates, phase1State)
			}
			phase1Only.evaluateAndBook(a, dates, phase1State, scorer)
		}
	}
	phase1Total := len(phase1State.Bookings())

	full := s.Schedule()
	fullTotal := len(full.Bookings())

	assert.GreaterOrEqual(t, fullTotal, phase1Total)
	for d := full.StartDate(); d.BeforeOrEqual(full.EndDate()); d = d.AddDays(1) {
		assert.LessOrEqual(t, full.CountOn(d), 15)
	}
	for _, a := range activities {
		assert.LessOrEqual(t, full.BookedCount(a.ID()), s.RequiredOccurrences(a))
	}
}

// Invariant 8 — determinism.
func TestSchedule_Determinism(t *testing.T) {
	freq := mustFreq(t, domain.Daily, 1, nil, nil)
	a := mustActivity(t, domain.ActivityParams{
		ID: "act_1", Name: "Walk", Kind: domain.Fitness, Priority: 1,
		Frequency: freq, DurationMinutes: 30, Location: domain.Home,
	})

	run := func() []domain.TimeSlot {
		s := NewScheduler([]*domain.Activity{a}, nil, nil, nil, seedStart, 14)
		return s.Schedule().Bookings()
	}

	first := run()
	second := run()
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i], second[i])
	}
}

// Invariant 7 — booked_count never exceeds required_occurrences.
func TestSchedule_BookedNeverExceedsRequired(t *testing.T) {
	a := mustActivity(t, domain.ActivityParams{
		ID: "act_1", Name: "Walk", Kind: domain.Fitness, Priority: 1,
		Frequency: mustFreq(t, domain.Weekly, 2, nil, nil), DurationMinutes: 30, Location: domain.Home,
	})
	s := NewScheduler([]*domain.Activity{a}, nil, nil, nil, seedStart, 90)
	state := s.Schedule()
	assert.LessOrEqual(t, state.BookedCount("act_1"), s.RequiredOccurrences(a))
}
