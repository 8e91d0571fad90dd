package jsonio

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/healthsched/internal/scheduling/domain"
	"github.com/felixgeelhaar/healthsched/internal/shared/infrastructure/security"
)

func readAndDecode(path string, v any) error {
	data, err := security.SafeReadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// LoadActivities parses the activities input file into validated domain
// entities. Every offending record is collected before returning; the loader
// never returns a partial set alongside an error.
func LoadActivities(path string) ([]*domain.Activity, error) {
	var dtos []activityDTO
	if err := readAndDecode(path, &dtos); err != nil {
		return nil, err
	}

	var errs LoadErrors
	seen := make(map[string]struct{}, len(dtos))
	activities := make([]*domain.Activity, 0, len(dtos))

	for i, d := range dtos {
		freq, err := toFrequency(d.Frequency)
		if err != nil {
			errs.add(path, i, d.ID, "frequency", err)
			continue
		}

		window, err := toTimeWindow(d.TimeWindowStart, d.TimeWindowEnd)
		if err != nil {
			errs.add(path, i, d.ID, "time_window", err)
			continue
		}

		a, err := domain.NewActivity(domain.ActivityParams{
			ID:                      d.ID,
			Name:                    d.Name,
			Kind:                    domain.Kind(d.Type),
			Priority:                d.Priority,
			Frequency:               freq,
			DurationMinutes:         d.DurationMinutes,
			Window:                  window,
			Location:                domain.Location(d.Location),
			RemoteCapable:           d.RemoteCapable,
			SpecialistID:            d.SpecialistID,
			EquipmentIDs:            d.EquipmentIDs,
			Details:                 d.Details,
			PreparationRequirements: d.PreparationRequirements,
			BackupActivityIDs:       d.BackupActivityIDs,
			MetricsToCollect:        d.MetricsToCollect,
		})
		if err != nil {
			errs.add(path, i, d.ID, "", err)
			continue
		}
		if _, dup := seen[a.ID()]; dup {
			errs.add(path, i, d.ID, "id", domain.ErrDuplicateID)
			continue
		}
		seen[a.ID()] = struct{}{}
		activities = append(activities, a)
	}

	if !errs.ok() {
		return nil, &errs
	}
	return activities, nil
}

func toFrequency(d frequencyDTO) (domain.Frequency, error) {
	return domain.NewFrequency(domain.Pattern(d.Pattern), d.Count, d.PreferredDays, d.IntervalDays)
}

func toTimeWindow(startStr, endStr *string) (*domain.TimeWindow, error) {
	if startStr == nil && endStr == nil {
		return nil, nil
	}
	if startStr == nil || endStr == nil {
		return nil, domain.ErrIncompleteTimeWindow
	}
	start, err := domain.ParseClockTime(*startStr)
	if err != nil {
		return nil, fmt.Errorf("time_window_start: %w", err)
	}
	end, err := domain.ParseClockTime(*endStr)
	if err != nil {
		return nil, fmt.Errorf("time_window_end: %w", err)
	}
	return &domain.TimeWindow{Start: start, End: end}, nil
}

// LoadSpecialists parses the specialists input file.
func LoadSpecialists(path string) ([]*domain.Specialist, error) {
	var dtos []specialistDTO
	if err := readAndDecode(path, &dtos); err != nil {
		return nil, err
	}

	var errs LoadErrors
	seen := make(map[string]struct{}, len(dtos))
	specialists := make([]*domain.Specialist, 0, len(dtos))

	for i, d := range dtos {
		blocks := make([]domain.AvailabilityBlock, 0, len(d.Availability))
		blockErr := false
		for _, b := range d.Availability {
			start, err := domain.ParseClockTime(b.StartTime)
			if err != nil {
				errs.add(path, i, d.ID, "availability.start_time", err)
				blockErr = true
				break
			}
			end, err := domain.ParseClockTime(b.EndTime)
			if err != nil {
				errs.add(path, i, d.ID, "availability.end_time", err)
				blockErr = true
				break
			}
			blocks = append(blocks, domain.AvailabilityBlock{DayOfWeek: b.DayOfWeek, Start: start, End: end})
		}
		if blockErr {
			continue
		}

		daysOff := make([]domain.Date, 0, len(d.DaysOff))
		dateErr := false
		for _, ds := range d.DaysOff {
			date, err := domain.ParseDate(ds)
			if err != nil {
				errs.add(path, i, d.ID, "days_off", err)
				dateErr = true
				break
			}
			daysOff = append(daysOff, date)
		}
		if dateErr {
			continue
		}

		s, err := domain.NewSpecialist(domain.SpecialistParams{
			ID:                   d.ID,
			Name:                 d.Name,
			Kind:                 domain.SpecialistKind(d.Type),
			Availability:         blocks,
			DaysOff:              daysOff,
			MaxConcurrentClients: d.MaxConcurrentClients,
		})
		if err != nil {
			errs.add(path, i, d.ID, "", err)
			continue
		}
		if _, dup := seen[s.ID()]; dup {
			errs.add(path, i, d.ID, "id", domain.ErrDuplicateID)
			continue
		}
		seen[s.ID()] = struct{}{}
		specialists = append(specialists, s)
	}

	if !errs.ok() {
		return nil, &errs
	}
	return specialists, nil
}

// LoadEquipment parses the equipment input file.
func LoadEquipment(path string) ([]*domain.Equipment, error) {
	var dtos []equipmentDTO
	if err := readAndDecode(path, &dtos); err != nil {
		return nil, err
	}

	var errs LoadErrors
	seen := make(map[string]struct{}, len(dtos))
	equipment := make([]*domain.Equipment, 0, len(dtos))

	for i, d := range dtos {
		windows := make([]domain.MaintenanceWindow, 0, len(d.MaintenanceWindows))
		windowErr := false
		for _, w := range d.MaintenanceWindows {
			startDate, err := domain.ParseDate(w.StartDate)
			if err != nil {
				errs.add(path, i, d.ID, "maintenance_windows.start_date", err)
				windowErr = true
				break
			}
			endDate, err := domain.ParseDate(w.EndDate)
			if err != nil {
				errs.add(path, i, d.ID, "maintenance_windows.end_date", err)
				windowErr = true
				break
			}
			var start, end *domain.ClockTime
			if w.StartTime != nil || w.EndTime != nil {
				if w.StartTime == nil || w.EndTime == nil {
					errs.add(path, i, d.ID, "maintenance_windows.start_time", domain.ErrIncompleteMaintenance)
					windowErr = true
					break
				}
				s, err := domain.ParseClockTime(*w.StartTime)
				if err != nil {
					errs.add(path, i, d.ID, "maintenance_windows.start_time", err)
					windowErr = true
					break
				}
				e, err := domain.ParseClockTime(*w.EndTime)
				if err != nil {
					errs.add(path, i, d.ID, "maintenance_windows.end_time", err)
					windowErr = true
					break
				}
				start, end = &s, &e
			}
			windows = append(windows, domain.MaintenanceWindow{StartDate: startDate, EndDate: endDate, Start: start, End: end})
		}
		if windowErr {
			continue
		}

		e, err := domain.NewEquipment(domain.EquipmentParams{
			ID:                 d.ID,
			Name:               d.Name,
			Location:           domain.Location(d.Location),
			MaintenanceWindows: windows,
			MaxConcurrentUsers: d.MaxConcurrentUsers,
			RequiresSpecialist: d.RequiresSpecialist,
		})
		if err != nil {
			errs.add(path, i, d.ID, "", err)
			continue
		}
		if _, dup := seen[e.ID()]; dup {
			errs.add(path, i, d.ID, "id", domain.ErrDuplicateID)
			continue
		}
		seen[e.ID()] = struct{}{}
		equipment = append(equipment, e)
	}

	if !errs.ok() {
		return nil, &errs
	}
	return equipment, nil
}

// LoadTravel parses the travel periods input file.
func LoadTravel(path string) ([]*domain.TravelPeriod, error) {
	var dtos []travelDTO
	if err := readAndDecode(path, &dtos); err != nil {
		return nil, err
	}

	var errs LoadErrors
	seen := make(map[string]struct{}, len(dtos))
	periods := make([]*domain.TravelPeriod, 0, len(dtos))

	for i, d := range dtos {
		start, err := domain.ParseDate(d.StartDate)
		if err != nil {
			errs.add(path, i, d.ID, "start_date", err)
			continue
		}
		end, err := domain.ParseDate(d.EndDate)
		if err != nil {
			errs.add(path, i, d.ID, "end_date", err)
			continue
		}
		t, err := domain.NewTravelPeriod(domain.TravelPeriodParams{
			ID:                   d.ID,
			StartDate:            start,
			EndDate:              end,
			Destination:          d.Location,
			RemoteActivitiesOnly: d.RemoteActivitiesOnly,
		})
		if err != nil {
			errs.add(path, i, d.ID, "", err)
			continue
		}
		if _, dup := seen[t.ID()]; dup {
			errs.add(path, i, d.ID, "id", domain.ErrDuplicateID)
			continue
		}
		seen[t.ID()] = struct{}{}
		periods = append(periods, t)
	}

	if !errs.ok() {
		return nil, &errs
	}
	return periods, nil
}

// LoadMetadata parses the metadata sidecar. It is informational only; the
// scheduler never reads it back.
func LoadMetadata(path string) (*RunMetadata, error) {
	var m RunMetadata
	if err := readAndDecode(path, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
