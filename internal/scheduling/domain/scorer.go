package domain

// Scorer ranks acceptable candidates in [0,10] by soft preference. It is
// deterministic given its internal pattern log: grouping/crowding/time
// scoring are pure functions of the candidate and current bookings, but
// consistency tracking is write-only state updated after each booking.
type Scorer struct {
	weekdaysBooked map[string]map[int]int // activity id -> weekday -> times booked
}

// NewScorer builds an empty scorer; it has no history until bookings happen.
func NewScorer() *Scorer {
	return &Scorer{weekdaysBooked: make(map[string]map[int]int)}
}

// Score computes the clamped [0,10] soft-preference score for a candidate.
func (s *Scorer) Score(activity *Activity, date Date, start ClockTime, state *SchedulerState) float64 {
	score := s.timePreference(activity, start)
	score += s.groupingBonus(activity, date, state)
	score += s.crowdingPenalty(date, state)
	score += s.consistencyBonus(activity, date)
	score += s.preferredDayBonus(activity, date)

	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return score
}

func (s *Scorer) timePreference(activity *Activity, start ClockTime) float64 {
	w := activity.Window()
	if w == nil {
		switch {
		case start >= NewClockTime(6, 0) && start <= NewClockTime(8, 59):
			return 8
		case start >= NewClockTime(9, 0) && start <= NewClockTime(16, 59):
			return 7
		case start >= NewClockTime(17, 0) && start <= NewClockTime(19, 59):
			return 6
		default:
			return 4
		}
	}
	span := float64(w.End - w.Start)
	if span <= 0 {
		return 5
	}
	pos := float64(start-w.Start) / span
	v := 10 - 20*((pos-0.5)*(pos-0.5))
	if v < 5 {
		v = 5
	}
	return v
}

// groupingBonus is a coarse type-affinity proxy: +1 per existing same-day
// booking whose activity id shares a 3-character prefix with this one,
// capped at 2. The prefix says nothing about activity kind: with sequential
// ids like act_001, act_002 every activity shares the "act" prefix, so the
// bonus fires for any same-day booking regardless of kind. It is kept as-is
// rather than parameterized on activity kind. See the scheduling design notes.
func (s *Scorer) groupingBonus(activity *Activity, date Date, state *SchedulerState) float64 {
	bonus := 0.0
	prefix := prefix3(activity.ID())
	for _, b := range state.BookingsOn(date) {
		if prefix3(b.ActivityID) == prefix {
			bonus++
			if bonus >= 2 {
				return 2
			}
		}
	}
	return bonus
}

func prefix3(id string) string {
	if len(id) <= 3 {
		return id
	}
	return id[:3]
}

func (s *Scorer) crowdingPenalty(date Date, state *SchedulerState) float64 {
	count := state.CountOn(date)
	switch {
	case count <= 3:
		return 0
	case count == 4:
		return -0.5
	case count == 5:
		return -1
	default:
		return -2
	}
}

func (s *Scorer) consistencyBonus(activity *Activity, date Date) float64 {
	weekdays, ok := s.weekdaysBooked[activity.ID()]
	if !ok {
		return 0
	}
	n := weekdays[date.Weekday()]
	switch {
	case n >= 2:
		return 2
	case n == 1:
		return 1
	default:
		return 0
	}
}

func (s *Scorer) preferredDayBonus(activity *Activity, date Date) float64 {
	for _, d := range activity.Frequency().PreferredDays() {
		if d == date.Weekday() {
			return 1
		}
	}
	return 0
}

// RecordBooking updates the scorer's write-only pattern log after a
// successful booking. Subsequent Score calls for the same activity will see
// the updated consistency history.
func (s *Scorer) RecordBooking(activity *Activity, date Date) {
	weekdays, ok := s.weekdaysBooked[activity.ID()]
	if !ok {
		weekdays = make(map[int]int)
		s.weekdaysBooked[activity.ID()] = weekdays
	}
	weekdays[date.Weekday()]++
}
