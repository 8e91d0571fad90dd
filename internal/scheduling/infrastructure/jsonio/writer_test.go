package jsonio

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/healthsched/internal/scheduling/domain"
)

func TestWriteSchedule_RoundTrips(t *testing.T) {
	state := domain.NewSchedulerState(domain.NewDate(2025, 12, 9), 7)
	state.Book(domain.TimeSlot{
		ActivityID: "act_1", Date: domain.NewDate(2025, 12, 9),
		Start: domain.NewClockTime(8, 0), DurationMinutes: 30,
	})

	path := filepath.Join(t.TempDir(), "schedule.json")
	require.NoError(t, WriteSchedule(path, state))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var slots []timeSlotDTO
	require.NoError(t, json.Unmarshal(data, &slots))
	require.Len(t, slots, 1)
	assert.Equal(t, "act_1", slots[0].ActivityID)
	assert.Equal(t, "2025-12-09", slots[0].Date)
	assert.Equal(t, "08:00:00", slots[0].StartTime)
}

func TestWriteStatistics_ReportsBasicCounts(t *testing.T) {
	state := domain.NewSchedulerState(domain.NewDate(2025, 12, 9), 7)
	state.Book(domain.TimeSlot{ActivityID: "act_1", Date: domain.NewDate(2025, 12, 9), Start: domain.NewClockTime(8, 0), DurationMinutes: 30})

	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, WriteStatistics(path, state))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var stats statisticsDTO
	require.NoError(t, json.Unmarshal(data, &stats))
	assert.Equal(t, 1, stats.TotalSlots)
	assert.Equal(t, 1, stats.UniqueActivities)
}
