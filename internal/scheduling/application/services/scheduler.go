// Package services hosts the greedy scheduler: the orchestration layer that
// sorts activities, expands frequencies into candidate occurrences, and
// drives the domain Checker/Scorer/SchedulerState to a finished schedule.
package services

import (
	"sort"

	"github.com/felixgeelhaar/healthsched/internal/scheduling/domain"
)

// lightDayThreshold is the booking count below which a horizon date counts
// as "light" during the backfill pass.
const lightDayThreshold = 15

// timeCandidateMinutes are the minute offsets scanned within each candidate
// hour; slots only ever land on the hour or half-hour.
var timeCandidateMinutes = [2]int{0, 30}

// Scheduler runs the two-phase greedy placement algorithm over a validated
// entity set and a fixed horizon. It is single-threaded and synchronous: no
// operation suspends, and nothing inside Schedule performs I/O.
type Scheduler struct {
	activities   []*domain.Activity
	specialists  []*domain.Specialist
	equipment    []*domain.Equipment
	travel       []*domain.TravelPeriod
	startDate    domain.Date
	durationDays int
	checker      *domain.Checker
}

// NewScheduler builds a Scheduler for a horizon starting at startDate and
// running durationDays (90 by default at the adapter layer).
func NewScheduler(
	activities []*domain.Activity,
	specialists []*domain.Specialist,
	equipment []*domain.Equipment,
	travel []*domain.TravelPeriod,
	startDate domain.Date,
	durationDays int,
) *Scheduler {
	return &Scheduler{
		activities:   append([]*domain.Activity(nil), activities...),
		specialists:  append([]*domain.Specialist(nil), specialists...),
		equipment:    append([]*domain.Equipment(nil), equipment...),
		travel:       append([]*domain.TravelPeriod(nil), travel...),
		startDate:    startDate,
		durationDays: durationDays,
		checker:      domain.NewChecker(specialists, equipment, travel),
	}
}

// RequiredOccurrences returns how many bookings an activity's frequency
// demands over this scheduler's horizon.
func (s *Scheduler) RequiredOccurrences(a *domain.Activity) int {
	return a.Frequency().RequiredOccurrences(s.durationDays)
}

// Schedule runs Phase 1 (priority-ordered placement) followed by Phase 2
// (light-day backfill) and returns the resulting state. Unscheduled
// occurrences never raise; they are implicit in required-minus-booked and
// are accompanied by diagnostic failure records.
func (s *Scheduler) Schedule() *domain.SchedulerState {
	state := domain.NewSchedulerState(s.startDate, s.durationDays)
	scorer := domain.NewScorer()
	ordered := s.sortedActivities()

	for _, a := range ordered {
		required := s.RequiredOccurrences(a)
		for i := 0; i < required; i++ {
			dates := s.candidateDates(a, i, state)
			if a.Priority() >= 3 {
				sortByLightness(dates, state)
			}
			s.evaluateAndBook(a, dates, state, scorer)
		}
	}

	s.backfill(ordered, state, scorer)
	return state
}

// sortedActivities orders by (priority ascending, frequency-importance
// descending); ties keep input order via a stable sort.
func (s *Scheduler) sortedActivities() []*domain.Activity {
	ordered := append([]*domain.Activity(nil), s.activities...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority() != ordered[j].Priority() {
			return ordered[i].Priority() < ordered[j].Priority()
		}
		return ordered[i].Frequency().Importance() > ordered[j].Frequency().Importance()
	})
	return ordered
}

func sortByLightness(dates []domain.Date, state *domain.SchedulerState) {
	sort.SliceStable(dates, func(i, j int) bool {
		return state.CountOn(dates[i]) < state.CountOn(dates[j])
	})
}

// candidateDates builds the date list for occurrence index i of activity a,
// per the pattern-specific rule in the main algorithm, dropping anything
// outside the horizon.
func (s *Scheduler) candidateDates(a *domain.Activity, i int, state *domain.SchedulerState) []domain.Date {
	freq := a.Frequency()
	var dates []domain.Date

	switch freq.Pattern() {
	case domain.Daily:
		dates = append(dates, s.startDate.AddDays(i))

	case domain.Weekly:
		count := freq.Count()
		primaryWeek := i / count
		withinWeekIndex := i % count
		targetWeekday := weeklyTargetWeekday(freq, withinWeekIndex)

		dates = append(dates, firstDateWithWeekday(s.startDate.AddDays(7*primaryWeek), targetWeekday))
		for w := 0; w < s.totalWeeks(); w++ {
			if w == primaryWeek {
				continue
			}
			dates = append(dates, firstDateWithWeekday(s.startDate.AddDays(7*w), targetWeekday))
		}

	case domain.Monthly:
		count := freq.Count()
		primaryBucket := i / count
		dates = append(dates, s.startDate.AddDays(30*primaryBucket))
		for k := 0; k < s.monthlyBucketCount(); k++ {
			if k == primaryBucket {
				continue
			}
			dates = append(dates, s.startDate.AddDays(30*k))
		}

	case domain.Custom:
		dates = append(dates, s.startDate.AddDays(i*freq.IntervalDays()))
	}

	return s.withinHorizon(dates, state)
}

func weeklyTargetWeekday(freq domain.Frequency, withinWeekIndex int) int {
	if freq.HasPreferredDays() {
		pd := freq.PreferredDays()
		return pd[withinWeekIndex%len(pd)]
	}
	return withinWeekIndex % 5
}

func firstDateWithWeekday(from domain.Date, weekday int) domain.Date {
	d := from
	for d.Weekday() != weekday {
		d = d.AddDays(1)
	}
	return d
}

func (s *Scheduler) withinHorizon(dates []domain.Date, state *domain.SchedulerState) []domain.Date {
	endDate := state.EndDate()
	filtered := dates[:0:0]
	for _, d := range dates {
		if d.AfterOrEqual(s.startDate) && d.BeforeOrEqual(endDate) {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

// totalWeeks is the number of week-buckets whose start date falls within the
// horizon. This is a ceiling division, (durationDays-1)/7+1, so a horizon
// that ends mid-week still gets a final partial bucket rather than being
// truncated to whole weeks only (plain duration_days/7 would drop it).
func (s *Scheduler) totalWeeks() int {
	return (s.durationDays-1)/7 + 1
}

// monthlyBucketCount is the number of 30-day buckets whose start date falls
// within the horizon: the same 30-day month approximation the
// required_occurrences formula uses, but counted by ceiling division,
// (durationDays-1)/30+1, so a final partial bucket is included.
func (s *Scheduler) monthlyBucketCount() int {
	return (s.durationDays-1)/30 + 1
}

// candidateTimes enumerates the intraday start-time candidates for an
// activity, preserving generation order: window-bound half-hour ticks if a
// window is present, otherwise the 06:00-20:30 fallback grid.
func candidateTimes(a *domain.Activity) []domain.ClockTime {
	var times []domain.ClockTime
	if w := a.Window(); w != nil {
		for hour := 0; hour < 24; hour++ {
			for _, minute := range timeCandidateMinutes {
				t := domain.NewClockTime(hour, minute)
				if t < w.Start {
					continue
				}
				if t.Add(a.DurationMinutes()) > w.End {
					continue
				}
				times = append(times, t)
			}
		}
		return times
	}
	for hour := 6; hour <= 20; hour++ {
		for _, minute := range timeCandidateMinutes {
			times = append(times, domain.NewClockTime(hour, minute))
		}
	}
	return times
}

// evaluateAndBook scans (date, time) pairs in generation order, checking and
// scoring each, then books the highest-scoring acceptable candidate
// (earliest generation order wins ties). Every rejected candidate is added to
// the activity's failure record. Returns whether a booking happened.
func (s *Scheduler) evaluateAndBook(a *domain.Activity, dates []domain.Date, state *domain.SchedulerState, scorer *domain.Scorer) bool {
	return s.bookBest(a, dates, state, scorer, true)
}

// bookBest is evaluateAndBook with failure recording made optional.
func (s *Scheduler) bookBest(a *domain.Activity, dates []domain.Date, state *domain.SchedulerState, scorer *domain.Scorer, recordFailures bool) bool {
	times := candidateTimes(a)
	bestScore := -1.0
	var bestDate domain.Date
	var bestTime domain.ClockTime
	found := false

	for _, d := range dates {
		for _, t := range times {
			if v := s.checker.Check(a, d, t, state); v != nil {
				if recordFailures {
					state.RecordFailure(a.ID(), *v)
				}
				continue
			}
			score := scorer.Score(a, d, t, state)
			if score > bestScore {
				bestScore = score
				bestDate = d
				bestTime = t
				found = true
			}
		}
	}

	if !found {
		return false
	}

	state.Book(domain.TimeSlot{
		ActivityID:      a.ID(),
		Date:            bestDate,
		Start:           bestTime,
		DurationMinutes: a.DurationMinutes(),
		SpecialistID:    a.SpecialistID(),
		EquipmentIDs:    a.EquipmentIDs(),
	})
	scorer.RecordBooking(a, bestDate)
	return true
}

// backfill is Phase 2: for each activity still short of its required count,
// retry against light days that do not already hold a booking of that
// activity, recomputing the light-day set after every successful booking,
// stopping an activity's retries the first time no light day accepts it.
// Candidates rejected here are not added to the failure records; those
// reflect Phase 1 only.
func (s *Scheduler) backfill(ordered []*domain.Activity, state *domain.SchedulerState, scorer *domain.Scorer) {
	for _, a := range ordered {
		required := s.RequiredOccurrences(a)
		for state.BookedCount(a.ID()) < required {
			var lightDays []domain.Date
			for _, d := range state.LightDays(lightDayThreshold) {
				alreadyBooked := false
				for _, b := range state.BookingsOn(d) {
					if b.ActivityID == a.ID() {
						alreadyBooked = true
						break
					}
				}
				if !alreadyBooked {
					lightDays = append(lightDays, d)
				}
			}
			if len(lightDays) == 0 {
				break
			}
			if !s.bookBest(a, lightDays, state, scorer, false) {
				break
			}
		}
	}
}
