package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailyFrequency(t *testing.T) Frequency {
	t.Helper()
	f, err := NewFrequency(Daily, 1, nil, nil)
	require.NoError(t, err)
	return f
}

func TestNewActivity_RequiresValidPriority(t *testing.T) {
	_, err := NewActivity(ActivityParams{
		ID: "act_001", Name: "Walk", Kind: Fitness, Priority: 0,
		Frequency: dailyFrequency(t), DurationMinutes: 30, Location: Home,
	})
	require.ErrorIs(t, err, ErrInvalidPriority)
}

func TestNewActivity_RequiresValidDuration(t *testing.T) {
	_, err := NewActivity(ActivityParams{
		ID: "act_001", Name: "Walk", Kind: Fitness, Priority: 1,
		Frequency: dailyFrequency(t), DurationMinutes: 481, Location: Home,
	})
	require.ErrorIs(t, err, ErrInvalidDuration)
}

func TestNewActivity_WindowMustBeOrdered(t *testing.T) {
	w := &TimeWindow{Start: NewClockTime(9, 0), End: NewClockTime(8, 0)}
	_, err := NewActivity(ActivityParams{
		ID: "act_001", Name: "Walk", Kind: Fitness, Priority: 1,
		Frequency: dailyFrequency(t), DurationMinutes: 30, Location: Home, Window: w,
	})
	require.ErrorIs(t, err, ErrInvalidTimeWindow)
}

func TestNewActivity_Valid(t *testing.T) {
	a, err := NewActivity(ActivityParams{
		ID: "act_001", Name: "Walk", Kind: Fitness, Priority: 1,
		Frequency: dailyFrequency(t), DurationMinutes: 30, Location: Home,
		RemoteCapable: true, EquipmentIDs: []string{"eq_1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "act_001", a.ID())
	assert.True(t, a.RemoteCapable())
	assert.False(t, a.RequiresSpecialist())
	assert.Equal(t, []string{"eq_1"}, a.EquipmentIDs())
}

func TestNewActivity_RejectsUnknownKind(t *testing.T) {
	_, err := NewActivity(ActivityParams{
		ID: "act_001", Name: "Walk", Kind: "Unknown", Priority: 1,
		Frequency: dailyFrequency(t), DurationMinutes: 30, Location: Home,
	})
	require.ErrorIs(t, err, ErrInvalidKind)
}
