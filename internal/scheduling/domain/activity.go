package domain

import "fmt"

// Kind is the category of a recurring activity.
type Kind string

const (
	Fitness      Kind = "Fitness"
	Food         Kind = "Food"
	Medication   Kind = "Medication"
	Therapy      Kind = "Therapy"
	Consultation Kind = "Consultation"
)

func validKind(k Kind) bool {
	switch k {
	case Fitness, Food, Medication, Therapy, Consultation:
		return true
	}
	return false
}

// Location is where an activity takes place.
type Location string

const (
	Home   Location = "Home"
	Gym    Location = "Gym"
	Clinic Location = "Clinic"
	Any    Location = "Any"
)

func validLocation(l Location) bool {
	switch l {
	case Home, Gym, Clinic, Any:
		return true
	}
	return false
}

// TimeWindow is an activity's allowed intraday interval. Candidate times must
// fit entirely inside it.
type TimeWindow struct {
	Start ClockTime
	End   ClockTime
}

// Activity is a recurring task the scheduler must place into the horizon.
// Entities are immutable once validated at load; there is no in-place edit.
type Activity struct {
	id                      string
	name                    string
	kind                    Kind
	priority                int
	frequency               Frequency
	durationMinutes         int
	window                  *TimeWindow
	location                Location
	remoteCapable           bool
	specialistID            string
	equipmentIDs            []string
	details                 string
	preparationRequirements []string
	backupActivityIDs       []string
	metricsToCollect        []string
}

// ActivityParams groups Activity construction inputs; the cosmetic fields
// (Details, PreparationRequirements, BackupActivityIDs, MetricsToCollect) are
// carried through for the output boundary but never consulted by scheduling.
type ActivityParams struct {
	ID                      string
	Name                    string
	Kind                    Kind
	Priority                int
	Frequency               Frequency
	DurationMinutes         int
	Window                  *TimeWindow
	Location                Location
	RemoteCapable           bool
	SpecialistID            string
	EquipmentIDs            []string
	Details                 string
	PreparationRequirements []string
	BackupActivityIDs       []string
	MetricsToCollect        []string
}

// NewActivity validates and constructs an Activity.
func NewActivity(p ActivityParams) (*Activity, error) {
	if p.ID == "" {
		return nil, ErrEmptyID
	}
	if p.Name == "" {
		return nil, ErrEmptyName
	}
	if !validKind(p.Kind) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, p.Kind)
	}
	if p.Priority < 1 || p.Priority > 5 {
		return nil, ErrInvalidPriority
	}
	if p.DurationMinutes < 5 || p.DurationMinutes > 480 {
		return nil, ErrInvalidDuration
	}
	if !validLocation(p.Location) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLocation, p.Location)
	}
	if p.Window != nil {
		if !(p.Window.End > p.Window.Start) {
			return nil, ErrInvalidTimeWindow
		}
	}

	a := &Activity{
		id:              p.ID,
		name:            p.Name,
		kind:            p.Kind,
		priority:        p.Priority,
		frequency:       p.Frequency,
		durationMinutes: p.DurationMinutes,
		window:          p.Window,
		location:        p.Location,
		remoteCapable:   p.RemoteCapable,
		specialistID:    p.SpecialistID,
	}
	a.equipmentIDs = append([]string(nil), p.EquipmentIDs...)
	a.details = p.Details
	a.preparationRequirements = append([]string(nil), p.PreparationRequirements...)
	a.backupActivityIDs = append([]string(nil), p.BackupActivityIDs...)
	a.metricsToCollect = append([]string(nil), p.MetricsToCollect...)
	return a, nil
}

func (a *Activity) ID() string                        { return a.id }
func (a *Activity) Name() string                       { return a.name }
func (a *Activity) Kind() Kind                         { return a.kind }
func (a *Activity) Priority() int                      { return a.priority }
func (a *Activity) Frequency() Frequency               { return a.frequency }
func (a *Activity) DurationMinutes() int               { return a.durationMinutes }
func (a *Activity) Window() *TimeWindow                { return a.window }
func (a *Activity) HasWindow() bool                    { return a.window != nil }
func (a *Activity) Location() Location                 { return a.location }
func (a *Activity) RemoteCapable() bool                { return a.remoteCapable }
func (a *Activity) SpecialistID() string               { return a.specialistID }
func (a *Activity) RequiresSpecialist() bool           { return a.specialistID != "" }
func (a *Activity) EquipmentIDs() []string             { return append([]string(nil), a.equipmentIDs...) }
func (a *Activity) Details() string                    { return a.details }
func (a *Activity) PreparationRequirements() []string  { return append([]string(nil), a.preparationRequirements...) }
func (a *Activity) BackupActivityIDs() []string        { return append([]string(nil), a.backupActivityIDs...) }
func (a *Activity) MetricsToCollect() []string         { return append([]string(nil), a.metricsToCollect...) }
