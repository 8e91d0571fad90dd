package domain

// TravelPeriod is a contiguous interval where the client is away.
type TravelPeriod struct {
	id                  string
	startDate           Date
	endDate             Date
	destination         string
	remoteActivitiesOnly bool
}

type TravelPeriodParams struct {
	ID                   string
	StartDate            Date
	EndDate              Date
	Destination          string
	RemoteActivitiesOnly bool
}

// NewTravelPeriod validates and constructs a TravelPeriod.
func NewTravelPeriod(p TravelPeriodParams) (*TravelPeriod, error) {
	if p.ID == "" {
		return nil, ErrEmptyID
	}
	if p.EndDate.Before(p.StartDate) {
		return nil, ErrInvalidDateRange
	}
	return &TravelPeriod{
		id:                   p.ID,
		startDate:            p.StartDate,
		endDate:              p.EndDate,
		destination:          p.Destination,
		remoteActivitiesOnly: p.RemoteActivitiesOnly,
	}, nil
}

func (t *TravelPeriod) ID() string          { return t.id }
func (t *TravelPeriod) Destination() string { return t.destination }
func (t *TravelPeriod) RemoteActivitiesOnly() bool { return t.remoteActivitiesOnly }

func (t *TravelPeriod) Contains(d Date) bool {
	return d.AfterOrEqual(t.startDate) && d.BeforeOrEqual(t.endDate)
}
