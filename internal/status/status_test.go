package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, min int) time.Time {
	return time.Date(2025, time.March, 10, hour, min, 0, 0, time.UTC)
}

func TestStoreHours_InvalidCloseTime(t *testing.T) {
	assert.Nil(t, StoreHours("", at(12, 0)))
	assert.Nil(t, StoreHours("930", at(12, 0)))
	assert.Nil(t, StoreHours("ab00", at(12, 0)))
}

func TestStoreHours_OneHourBeforeClose(t *testing.T) {
	got := StoreHours("2300", at(22, 0))
	require.NotNil(t, got)
	assert.Equal(t, "open", got.Status)
	assert.Equal(t, 60, got.RemainingMinutes)
	assert.Equal(t, SeverityMedium, got.Severity)
	assert.Equal(t, "1h 0m left", got.Label)
	assert.Equal(t, "23:00", got.CloseFormatted)
}

func TestStoreHours_RollsPastMidnight(t *testing.T) {
	got := StoreHours("0100", at(23, 30))
	require.NotNil(t, got)
	assert.Equal(t, "open", got.Status)
	assert.Equal(t, 90, got.RemainingMinutes)
	assert.Equal(t, SeverityMedium, got.Severity)
}

func TestStoreHours_SeverityTiers(t *testing.T) {
	tests := []struct {
		now  time.Time
		want Severity
	}{
		{at(18, 0), SeverityLow},    // 5h remaining
		{at(21, 0), SeverityLow},    // exactly 120m
		{at(21, 1), SeverityMedium}, // 119m
		{at(22, 0), SeverityMedium}, // exactly 60m
		{at(22, 1), SeverityHigh},   // 59m
	}
	for _, tt := range tests {
		got := StoreHours("2300", tt.now)
		require.NotNil(t, got)
		assert.Equalf(t, tt.want, got.Severity, "now=%s", tt.now)
	}
}

func TestStoreHours_ClosedBeforeOpeningHour(t *testing.T) {
	got := StoreHours("2300", at(5, 30))
	require.NotNil(t, got)
	assert.Equal(t, "closed", got.Status)
	assert.Equal(t, "Closed", got.Label)
	assert.Equal(t, 0, got.RemainingMinutes)
}

func TestStoreHours_OpenAtOpeningHour(t *testing.T) {
	got := StoreHours("2300", at(6, 0))
	require.NotNil(t, got)
	assert.Equal(t, "open", got.Status)
}

func TestRosterCooldown_NoTimer(t *testing.T) {
	assert.Nil(t, RosterCooldown(nil, at(12, 0)))
}

func TestRosterCooldown_FinalHourEscalates(t *testing.T) {
	now := at(12, 0)
	last := now.Add(-23 * time.Hour)
	got := RosterCooldown(&last, now)
	require.NotNil(t, got)
	assert.Equal(t, "countdown", got.Status)
	assert.Equal(t, 60, got.Remaining)
	assert.Equal(t, SeverityHigh, got.Severity)
	assert.Equal(t, "1h 0m left", got.Label)
}

func TestRosterCooldown_OutsideFinalHour(t *testing.T) {
	now := at(12, 0)
	last := now.Add(-10 * time.Hour)
	got := RosterCooldown(&last, now)
	require.NotNil(t, got)
	assert.Equal(t, "countdown", got.Status)
	assert.Equal(t, 14*60, got.Remaining)
	assert.Equal(t, SeverityMedium, got.Severity)
	assert.Equal(t, "14h 0m left", got.Label)
}

func TestRosterCooldown_MinutesOnlyLabel(t *testing.T) {
	now := at(12, 0)
	last := now.Add(-23*time.Hour - 30*time.Minute)
	got := RosterCooldown(&last, now)
	require.NotNil(t, got)
	assert.Equal(t, "30m left", got.Label)
}

func TestRosterCooldown_ElapsedDaysAndHours(t *testing.T) {
	now := at(12, 0)
	last := now.Add(-30 * time.Hour)
	got := RosterCooldown(&last, now)
	require.NotNil(t, got)
	assert.Equal(t, "elapsed", got.Status)
	assert.Equal(t, "1d 6h ago", got.Label)
	assert.Equal(t, SeveritySafe, got.Severity)
}

func TestRosterCooldown_ElapsedUnderADay(t *testing.T) {
	now := at(12, 0)
	last := now.Add(-25*time.Hour - 15*time.Minute)
	got := RosterCooldown(&last, now)
	require.NotNil(t, got)
	assert.Equal(t, "elapsed", got.Status)
	assert.Equal(t, "1d 1h ago", got.Label)
}

func TestRosterCooldown_ExactlyAtBoundary(t *testing.T) {
	now := at(12, 0)
	last := now.Add(-24 * time.Hour)
	got := RosterCooldown(&last, now)
	require.NotNil(t, got)
	assert.Equal(t, "elapsed", got.Status)
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "09:30", FormatTime("0930"))
	assert.Equal(t, "", FormatTime("930"))
	assert.Equal(t, "", FormatTime(""))
}
