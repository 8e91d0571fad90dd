package domain

import "fmt"

// SpecialistKind is the discipline a Specialist practices.
type SpecialistKind string

const (
	Trainer      SpecialistKind = "Trainer"
	Dietitian    SpecialistKind = "Dietitian"
	Therapist    SpecialistKind = "Therapist"
	Physician    SpecialistKind = "Physician"
	AlliedHealth SpecialistKind = "Allied_Health"
)

func validSpecialistKind(k SpecialistKind) bool {
	switch k {
	case Trainer, Dietitian, Therapist, Physician, AlliedHealth:
		return true
	}
	return false
}

// AvailabilityBlock is a recurring weekly window a Specialist can be booked in.
type AvailabilityBlock struct {
	DayOfWeek int
	Start     ClockTime
	End       ClockTime
}

// Specialist is a bookable human resource.
type Specialist struct {
	id                   string
	name                 string
	kind                 SpecialistKind
	availability         []AvailabilityBlock
	daysOff              map[Date]struct{}
	maxConcurrentClients int
}

type SpecialistParams struct {
	ID                   string
	Name                 string
	Kind                 SpecialistKind
	Availability         []AvailabilityBlock
	DaysOff              []Date
	MaxConcurrentClients int
}

// NewSpecialist validates and constructs a Specialist. max_concurrent_clients
// is accepted and stored but never consulted by the constraint checker: the
// engine always treats specialist-required activities as mutually exclusive
// via the overlap rule, regardless of this value. See the scheduling design
// notes for the two ways a port could resolve that instead of silently
// fixing it here.
func NewSpecialist(p SpecialistParams) (*Specialist, error) {
	if p.ID == "" {
		return nil, ErrEmptyID
	}
	if p.Name == "" {
		return nil, ErrEmptyName
	}
	if !validSpecialistKind(p.Kind) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, p.Kind)
	}
	if len(p.Availability) == 0 {
		return nil, ErrEmptyAvailability
	}
	for _, b := range p.Availability {
		if b.DayOfWeek < 0 || b.DayOfWeek > 6 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidDayOfWeek, b.DayOfWeek)
		}
		if !(b.End > b.Start) {
			return nil, ErrInvalidAvailability
		}
	}
	if p.MaxConcurrentClients <= 0 {
		return nil, ErrInvalidMaxConcurrent
	}

	s := &Specialist{
		id:                   p.ID,
		name:                 p.Name,
		kind:                 p.Kind,
		availability:         append([]AvailabilityBlock(nil), p.Availability...),
		daysOff:              make(map[Date]struct{}, len(p.DaysOff)),
		maxConcurrentClients: p.MaxConcurrentClients,
	}
	for _, d := range p.DaysOff {
		s.daysOff[d] = struct{}{}
	}
	return s, nil
}

func (s *Specialist) ID() string     { return s.id }
func (s *Specialist) Name() string   { return s.name }
func (s *Specialist) Kind() SpecialistKind { return s.kind }
func (s *Specialist) MaxConcurrentClients() int { return s.maxConcurrentClients }

func (s *Specialist) IsDayOff(d Date) bool {
	_, off := s.daysOff[d]
	return off
}

// AvailabilityOn returns every availability block whose DayOfWeek matches
// weekday (Mon=0..Sun=6).
func (s *Specialist) AvailabilityOn(weekday int) []AvailabilityBlock {
	var out []AvailabilityBlock
	for _, b := range s.availability {
		if b.DayOfWeek == weekday {
			out = append(out, b)
		}
	}
	return out
}
