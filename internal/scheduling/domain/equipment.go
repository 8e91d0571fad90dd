package domain

// MaintenanceWindow takes a piece of equipment out of service for a date
// range, either all day or during a specific intraday interval (start/end
// are both-present or both-absent).
type MaintenanceWindow struct {
	StartDate Date
	EndDate   Date
	Start     *ClockTime
	End       *ClockTime
}

func (w MaintenanceWindow) allDay() bool { return w.Start == nil && w.End == nil }

func (w MaintenanceWindow) covers(d Date) bool {
	return d.AfterOrEqual(w.StartDate) && d.BeforeOrEqual(w.EndDate)
}

// overlapsInterval reports whether the maintenance window's intraday portion
// overlaps [start, start+duration) on a date it already covers.
func (w MaintenanceWindow) overlapsInterval(start ClockTime, durationMinutes int) bool {
	if w.allDay() {
		return true
	}
	end := start.Add(durationMinutes)
	return start < *w.End && *w.Start < end
}

// Equipment is a bookable physical resource.
type Equipment struct {
	id                string
	name              string
	location          Location
	maintenanceWindows []MaintenanceWindow
	maxConcurrentUsers int
	requiresSpecialist bool
}

type EquipmentParams struct {
	ID                 string
	Name               string
	Location           Location
	MaintenanceWindows []MaintenanceWindow
	MaxConcurrentUsers int
	RequiresSpecialist bool
}

// NewEquipment validates and constructs an Equipment.
func NewEquipment(p EquipmentParams) (*Equipment, error) {
	if p.ID == "" {
		return nil, ErrEmptyID
	}
	if p.Name == "" {
		return nil, ErrEmptyName
	}
	if !validLocation(p.Location) {
		return nil, ErrInvalidLocation
	}
	if p.MaxConcurrentUsers <= 0 {
		return nil, ErrInvalidMaxConcurrent
	}
	for _, w := range p.MaintenanceWindows {
		if w.EndDate.Before(w.StartDate) {
			return nil, ErrInvalidDateRange
		}
		if (w.Start == nil) != (w.End == nil) {
			return nil, ErrIncompleteMaintenance
		}
		if w.Start != nil && !(*w.End > *w.Start) {
			return nil, ErrInvalidMaintenanceTime
		}
	}

	e := &Equipment{
		id:                 p.ID,
		name:               p.Name,
		location:           p.Location,
		maintenanceWindows: append([]MaintenanceWindow(nil), p.MaintenanceWindows...),
		maxConcurrentUsers: p.MaxConcurrentUsers,
		requiresSpecialist: p.RequiresSpecialist,
	}
	return e, nil
}

func (e *Equipment) ID() string                 { return e.id }
func (e *Equipment) Name() string                { return e.name }
func (e *Equipment) Location() Location          { return e.location }
func (e *Equipment) MaxConcurrentUsers() int     { return e.maxConcurrentUsers }
func (e *Equipment) RequiresSpecialist() bool    { return e.requiresSpecialist }

// MaintenanceViolationOn returns true if (date, start, duration) falls inside
// any maintenance window.
func (e *Equipment) MaintenanceViolationOn(date Date, start ClockTime, durationMinutes int) bool {
	for _, w := range e.maintenanceWindows {
		if w.covers(date) && w.overlapsInterval(start, durationMinutes) {
			return true
		}
	}
	return false
}
