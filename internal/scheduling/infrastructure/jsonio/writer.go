package jsonio

import (
	"encoding/json"
	"sort"

	"github.com/felixgeelhaar/healthsched/internal/scheduling/domain"
	"github.com/felixgeelhaar/healthsched/internal/shared/infrastructure/security"
)

// WriteSchedule renders a completed state's booking log to the Schedule
// output shape and writes it to path.
func WriteSchedule(path string, state *domain.SchedulerState) error {
	bookings := state.Bookings()
	out := make([]timeSlotDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, timeSlotDTO{
			ActivityID:      b.ActivityID,
			Date:            b.Date.Format(),
			StartTime:       b.Start.String(),
			DurationMinutes: b.DurationMinutes,
			SpecialistID:    b.SpecialistID,
			EquipmentIDs:    b.EquipmentIDs,
		})
	}
	return writeJSON(path, out)
}

// ActivityLookup resolves an activity id to the display fields the failure
// report needs (name, kind, priority); the scheduler itself never keeps this
// around once bookings are decided.
type ActivityLookup interface {
	Name() string
	Kind() domain.Kind
	Priority() int
}

// WriteFailureReport renders AllFailures, sorted by activity priority
// ascending, resolving each activity id against the provided lookup.
func WriteFailureReport(path string, state *domain.SchedulerState, activities map[string]ActivityLookup) error {
	failures := state.AllFailures()
	entries := make([]failureReportEntryDTO, 0, len(failures))

	for _, f := range failures {
		a, ok := activities[f.ActivityID]
		if !ok {
			continue
		}
		counts := make(map[string]int)
		var sample string
		for _, v := range f.Violations {
			counts[string(v.Kind)]++
			if sample == "" {
				sample = v.Message
			}
		}
		entries = append(entries, failureReportEntryDTO{
			ActivityID:     f.ActivityID,
			ActivityName:   a.Name(),
			ActivityType:   string(a.Kind()),
			Priority:       a.Priority(),
			Attempts:       f.Attempts,
			ViolationTypes: counts,
			SampleReason:   sample,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Priority < entries[j].Priority
	})

	return writeJSON(path, entries)
}

// WriteStatistics renders the state's computed Statistics summary.
func WriteStatistics(path string, state *domain.SchedulerState) error {
	stats := state.ComputeStatistics()
	dto := statisticsDTO{
		TotalSlots:       stats.TotalSlots,
		UniqueActivities: stats.UniqueActivities,
		DateRange:        [2]string{stats.DateRangeStart.Format(), stats.DateRangeEnd.Format()},
		BusiestDay:       [2]any{stats.BusiestDay.Format(), stats.BusiestDayCount},
		SpecialistUsage:  stats.SpecialistUsage,
		EquipmentUsage:   stats.EquipmentUsage,
		FailedCount:      stats.FailedCount,
	}
	return writeJSON(path, dto)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return security.SafeWriteFile(path, data)
}
