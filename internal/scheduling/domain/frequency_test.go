package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFrequency_DailyForbidsPreferredDays(t *testing.T) {
	_, err := NewFrequency(Daily, 1, []int{0, 1}, nil)
	require.ErrorIs(t, err, ErrDailyForbidsPreferredDays)
}

func TestNewFrequency_CustomRequiresInterval(t *testing.T) {
	_, err := NewFrequency(Custom, 1, nil, nil)
	require.ErrorIs(t, err, ErrCustomRequiresInterval)
}

func TestNewFrequency_IntervalOnlyForCustom(t *testing.T) {
	interval := 3
	_, err := NewFrequency(Daily, 1, nil, &interval)
	require.ErrorIs(t, err, ErrIntervalOnlyForCustom)
}

func TestNewFrequency_WeeklyCountCap(t *testing.T) {
	_, err := NewFrequency(Weekly, 8, nil, nil)
	require.ErrorIs(t, err, ErrWeeklyCountTooHigh)
}

func TestNewFrequency_MonthlyCountCap(t *testing.T) {
	_, err := NewFrequency(Monthly, 32, nil, nil)
	require.ErrorIs(t, err, ErrMonthlyCountTooHigh)
}

func TestNewFrequency_InvalidPreferredDay(t *testing.T) {
	_, err := NewFrequency(Weekly, 1, []int{7}, nil)
	require.ErrorIs(t, err, ErrInvalidPreferredDay)
}

func TestRequiredOccurrences_Daily(t *testing.T) {
	f, err := NewFrequency(Daily, 1, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 90, f.RequiredOccurrences(90))
}

func TestRequiredOccurrences_Weekly(t *testing.T) {
	f, err := NewFrequency(Weekly, 3, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, (90/7)*3, f.RequiredOccurrences(90))
}

func TestRequiredOccurrences_Monthly_UsesApproximation(t *testing.T) {
	f, err := NewFrequency(Monthly, 1, nil, nil)
	require.NoError(t, err)
	// duration_days // 30, not a calendar-accurate month count.
	assert.Equal(t, 3, f.RequiredOccurrences(90))
	assert.Equal(t, 3, f.RequiredOccurrences(91))
}

func TestRequiredOccurrences_Custom(t *testing.T) {
	interval := 10
	f, err := NewFrequency(Custom, 1, nil, &interval)
	require.NoError(t, err)
	assert.Equal(t, 9, f.RequiredOccurrences(90))
}

func TestImportanceOrdering(t *testing.T) {
	daily, _ := NewFrequency(Daily, 1, nil, nil)
	weekly, _ := NewFrequency(Weekly, 1, nil, nil)
	monthly, _ := NewFrequency(Monthly, 1, nil, nil)
	interval := 5
	custom, _ := NewFrequency(Custom, 1, nil, &interval)

	assert.Greater(t, daily.Importance(), weekly.Importance())
	assert.Greater(t, weekly.Importance(), monthly.Importance())
	assert.Greater(t, monthly.Importance(), custom.Importance())
}
