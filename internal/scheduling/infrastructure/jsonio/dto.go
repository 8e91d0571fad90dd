// Package jsonio maps the engine's external JSON boundary onto domain
// entities: one loader per input file, one writer per output shape. DTOs stay
// intentionally dumb (string/struct fields, no behavior) so every invariant
// lives exactly once, in the domain constructors.
package jsonio

// activityDTO mirrors the activities input file's record shape.
type activityDTO struct {
	ID                      string      `json:"id"`
	Name                    string      `json:"name"`
	Type                    string      `json:"type"`
	Priority                int         `json:"priority"`
	Frequency               frequencyDTO `json:"frequency"`
	DurationMinutes         int         `json:"duration_minutes"`
	TimeWindowStart         *string     `json:"time_window_start,omitempty"`
	TimeWindowEnd           *string     `json:"time_window_end,omitempty"`
	Details                 string      `json:"details,omitempty"`
	SpecialistID            string      `json:"specialist_id,omitempty"`
	EquipmentIDs            []string    `json:"equipment_ids,omitempty"`
	Location                string      `json:"location"`
	RemoteCapable           bool        `json:"remote_capable"`
	PreparationRequirements []string    `json:"preparation_requirements,omitempty"`
	BackupActivityIDs       []string    `json:"backup_activity_ids,omitempty"`
	MetricsToCollect        []string    `json:"metrics_to_collect,omitempty"`
}

type frequencyDTO struct {
	Pattern       string `json:"pattern"`
	Count         int    `json:"count"`
	PreferredDays []int  `json:"preferred_days,omitempty"`
	IntervalDays  *int   `json:"interval_days,omitempty"`
}

type availabilityBlockDTO struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type specialistDTO struct {
	ID                   string                 `json:"id"`
	Name                 string                 `json:"name"`
	Type                 string                 `json:"type"`
	Availability         []availabilityBlockDTO `json:"availability"`
	DaysOff              []string               `json:"days_off,omitempty"`
	MaxConcurrentClients int                    `json:"max_concurrent_clients"`
}

type maintenanceWindowDTO struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
}

type equipmentDTO struct {
	ID                 string                 `json:"id"`
	Name               string                 `json:"name"`
	Location           string                 `json:"location"`
	MaintenanceWindows []maintenanceWindowDTO `json:"maintenance_windows,omitempty"`
	MaxConcurrentUsers int                    `json:"max_concurrent_users"`
	RequiresSpecialist bool                   `json:"requires_specialist"`
}

type travelDTO struct {
	ID                   string `json:"id"`
	StartDate            string `json:"start_date"`
	EndDate              string `json:"end_date"`
	Location             string `json:"location"`
	RemoteActivitiesOnly bool   `json:"remote_activities_only"`
}

// RunMetadata mirrors the metadata sidecar: informational only, never
// consulted by the scheduler itself.
type RunMetadata struct {
	StartDate    string         `json:"start_date"`
	EndDate      string         `json:"end_date"`
	DurationDays int            `json:"duration_days"`
	Counts       map[string]int `json:"counts,omitempty"`
}

// timeSlotDTO mirrors a Schedule output record.
type timeSlotDTO struct {
	ActivityID      string   `json:"activity_id"`
	Date            string   `json:"date"`
	StartTime       string   `json:"start_time"`
	DurationMinutes int      `json:"duration_minutes"`
	SpecialistID    string   `json:"specialist_id,omitempty"`
	EquipmentIDs    []string `json:"equipment_ids,omitempty"`
}

// failureReportEntryDTO mirrors one Failure report record.
type failureReportEntryDTO struct {
	ActivityID     string         `json:"activity_id"`
	ActivityName   string         `json:"activity_name"`
	ActivityType   string         `json:"activity_type"`
	Priority       int            `json:"priority"`
	Attempts       int            `json:"attempts"`
	ViolationTypes map[string]int `json:"violation_types"`
	SampleReason   string         `json:"sample_reason"`
}

// statisticsDTO mirrors the Statistics output shape.
type statisticsDTO struct {
	TotalSlots       int            `json:"total_slots"`
	UniqueActivities int            `json:"unique_activities"`
	DateRange        [2]string      `json:"date_range"`
	BusiestDay       [2]any         `json:"busiest_day"`
	SpecialistUsage  map[string]int `json:"specialist_usage"`
	EquipmentUsage   map[string]int `json:"equipment_usage"`
	FailedCount      int            `json:"failed_count"`
}
